package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ivanoskov/finance_app/internal/charts"
	"github.com/ivanoskov/finance_app/internal/service"
)

// Server exposes the finance service over HTTP JSON. It owns no business
// logic: handlers parse input, call the service and translate errors to
// status codes.
type Server struct {
	svc    *service.FinanceService
	charts *charts.Generator
	log    zerolog.Logger
}

func NewServer(svc *service.FinanceService, log zerolog.Logger) *Server {
	return &Server{
		svc:    svc,
		charts: charts.NewGenerator(),
		log:    log,
	}
}

// Routes wires every endpoint on a method-qualified mux and wraps it with
// request logging and CORS.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/visualization-data", s.handleVisualizationData)
	mux.HandleFunc("GET /api/charts/trend.png", s.handleTrendChart)
	mux.HandleFunc("GET /api/export/report", s.handleExportReport)
	mux.HandleFunc("GET /api/export/expenses.csv", s.handleExportExpenses)

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /api/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/income", s.handleListIncome)
	mux.HandleFunc("POST /api/income", s.handleCreateIncome)
	mux.HandleFunc("DELETE /api/income/{id}", s.handleDeleteIncome)

	mux.HandleFunc("GET /api/cart", s.handleListCart)
	mux.HandleFunc("GET /api/cart/summary", s.handleCartSummary)
	mux.HandleFunc("POST /api/cart", s.handleAddToCart)
	mux.HandleFunc("DELETE /api/cart/{id}", s.handleRemoveFromCart)
	mux.HandleFunc("POST /api/cart/checkout", s.handleCheckout)

	return s.requestLogger(withCORS(mux))
}
