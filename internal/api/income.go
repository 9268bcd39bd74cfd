package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
	"github.com/ivanoskov/finance_app/internal/repository"
	"github.com/ivanoskov/finance_app/internal/service"
)

type incomeRequest struct {
	Source      string  `json:"source"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	IncomeType  string  `json:"income_type"`
	Date        string  `json:"date"`
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.svc.ListIncome(r.Context(), days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []model.Income{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req incomeRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := parseDateValue(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected RFC3339 or YYYY-MM-DD")
			return
		}
		date = parsed
	}

	record, err := s.svc.CreateIncome(r.Context(), service.IncomeInput{
		Source:      req.Source,
		Amount:      req.Amount,
		Description: req.Description,
		IncomeType:  req.IncomeType,
		Date:        date,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.DeleteIncome(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "income record not found")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
