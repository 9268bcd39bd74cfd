package api

import (
	"errors"
	"net/http"

	"github.com/ivanoskov/finance_app/internal/model"
	"github.com/ivanoskov/finance_app/internal/repository"
)

type cartAddRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) handleListCart(w http.ResponseWriter, r *http.Request) {
	lines, err := s.svc.ListCart(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleCartSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.CartSummary(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if summary.Items == nil {
		summary.Items = []model.CartLine{}
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Quantity defaults to one when the payload omits it.
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := s.svc.AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.svc.RemoveFromCart(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "cart item not found")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	txn, err := s.svc.Checkout(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}
