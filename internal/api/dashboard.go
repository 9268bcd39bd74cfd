package api

import (
	"net/http"
	"time"

	"github.com/ivanoskov/finance_app/internal/export"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"message":   "finance app api is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dashboard, err := s.svc.Dashboard(r.Context(), days)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleVisualizationData(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.VisualizationData(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	trend, err := s.svc.MonthlyTrend(r.Context(), 0)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	png, err := s.charts.TrendChart(trend)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if len(png) == 0 {
		writeError(w, http.StatusNotFound, "no data to plot")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ExportableExpenses(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.ExpensesCSV(w, expenses); err != nil {
		s.log.Error().Err(err).Msg("stream expenses csv")
	}
}
