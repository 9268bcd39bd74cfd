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

type expenseRequest struct {
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
	Date          string  `json:"date"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
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

	expense, err := s.svc.CreateExpense(r.Context(), service.ExpenseInput{
		Category:      req.Category,
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Date:          date,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
