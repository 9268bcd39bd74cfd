package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

const (
	trendMonths   = 6
	topLimit      = 5
	lowStockLimit = 5
	exportDays    = 365
)

// Summary holds the headline figures for a trailing window. Balance is
// always income minus expenses; the savings rate is zero when there is no
// income so an empty data set never divides by zero.
type Summary struct {
	PeriodDays    int     `json:"period_days"`
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	Balance       float64 `json:"balance"`
	SavingsRate   float64 `json:"savings_rate"`
}

// MonthlyTrendPoint is one 30-day bucket of the income vs expenses trend.
type MonthlyTrendPoint struct {
	Month    string    `json:"month"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
	Balance  float64   `json:"balance"`
	Start    time.Time `json:"-"`
}

// ProductAnalytics summarizes the inventory.
type ProductAnalytics struct {
	TotalProducts       int             `json:"total_products"`
	TotalInventoryValue float64         `json:"total_inventory_value"`
	LowStockItems       []model.Product `json:"low_stock_items"`
	Categories          []string        `json:"categories"`
}

// Dashboard is the aggregated payload behind GET /api/dashboard.
type Dashboard struct {
	Summary          Summary             `json:"summary"`
	ExpenseBreakdown map[string]float64  `json:"expense_breakdown"`
	IncomeBreakdown  map[string]float64  `json:"income_breakdown"`
	MonthlyTrend     []MonthlyTrendPoint `json:"monthly_trend"`
	TopExpenses      []model.Expense     `json:"top_expenses"`
	TopIncome        []model.Income      `json:"top_income"`
	ProductAnalytics ProductAnalytics    `json:"product_analytics"`
}

// PieSeries is a label/value pair list ready for pie chart rendering,
// ordered by descending value.
type PieSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// TrendSeries carries the monthly trend as parallel arrays for line charts.
type TrendSeries struct {
	Months   []string  `json:"months"`
	Income   []float64 `json:"income"`
	Expenses []float64 `json:"expenses"`
	Balance  []float64 `json:"balance"`
}

// VisualizationData is the chart-ready payload behind GET /api/visualization-data.
type VisualizationData struct {
	PieChartExpenses PieSeries   `json:"pie_chart_expenses"`
	PieChartIncome   PieSeries   `json:"pie_chart_income"`
	LineChartTrend   TrendSeries `json:"line_chart_trend"`
}

// FinancialReport is the exportable snapshot of everything the dashboard
// shows plus the checkout history.
type FinancialReport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	FinancialSummary   Summary             `json:"financial_summary"`
	ExpenseBreakdown   map[string]float64  `json:"expense_breakdown"`
	IncomeBreakdown    map[string]float64  `json:"income_breakdown"`
	TopExpenses        []model.Expense     `json:"top_expenses"`
	TopIncome          []model.Income      `json:"top_income"`
	ProductAnalytics   ProductAnalytics    `json:"product_analytics"`
	MonthlyTrend       []MonthlyTrendPoint `json:"monthly_trend"`
	RecentTransactions []model.Transaction `json:"recent_transactions"`
}

// Summary computes the headline figures for the trailing window.
func (s *FinanceService) Summary(ctx context.Context, days int) (Summary, error) {
	if days <= 0 {
		days = defaultWindowDays
	}
	since := windowStart(days)

	totalIncome, err := s.repo.SumIncome(ctx, since, time.Time{})
	if err != nil {
		return Summary{}, fmt.Errorf("sum income: %w", err)
	}
	totalExpenses, err := s.repo.SumExpenses(ctx, since, time.Time{})
	if err != nil {
		return Summary{}, fmt.Errorf("sum expenses: %w", err)
	}

	balance := round2(totalIncome - totalExpenses)
	savingsRate := 0.0
	if totalIncome > 0 {
		savingsRate = round2(balance / totalIncome * 100)
	}

	return Summary{
		PeriodDays:    days,
		TotalIncome:   round2(totalIncome),
		TotalExpenses: round2(totalExpenses),
		Balance:       balance,
		SavingsRate:   savingsRate,
	}, nil
}

// Dashboard assembles the full dashboard payload for the trailing window.
func (s *FinanceService) Dashboard(ctx context.Context, days int) (Dashboard, error) {
	summary, err := s.Summary(ctx, days)
	if err != nil {
		return Dashboard{}, err
	}
	since := windowStart(summary.PeriodDays)

	expenseBreakdown, err := s.repo.ExpensesByCategory(ctx, since)
	if err != nil {
		return Dashboard{}, err
	}
	incomeBreakdown, err := s.repo.IncomeBySource(ctx, since)
	if err != nil {
		return Dashboard{}, err
	}
	trend, err := s.MonthlyTrend(ctx, trendMonths)
	if err != nil {
		return Dashboard{}, err
	}
	topExpenses, err := s.repo.TopExpenses(ctx, since, topLimit)
	if err != nil {
		return Dashboard{}, err
	}
	topIncome, err := s.repo.TopIncome(ctx, since, topLimit)
	if err != nil {
		return Dashboard{}, err
	}
	analytics, err := s.ProductAnalytics(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Summary:          summary,
		ExpenseBreakdown: expenseBreakdown,
		IncomeBreakdown:  incomeBreakdown,
		MonthlyTrend:     trend,
		TopExpenses:      topExpenses,
		TopIncome:        topIncome,
		ProductAnalytics: analytics,
	}, nil
}

// MonthlyTrend computes income vs expenses over trailing 30-day buckets,
// oldest bucket first.
func (s *FinanceService) MonthlyTrend(ctx context.Context, months int) ([]MonthlyTrendPoint, error) {
	if months <= 0 {
		months = trendMonths
	}

	now := time.Now()
	points := make([]MonthlyTrendPoint, 0, months)
	for i := months; i >= 1; i-- {
		start := now.AddDate(0, 0, -30*i)
		end := start.AddDate(0, 0, 30)
		// The newest bucket stays open so a record dated this instant is
		// never dropped by the exclusive upper bound.
		if i == 1 {
			end = time.Time{}
		}

		income, err := s.repo.SumIncome(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("trend income bucket: %w", err)
		}
		expenses, err := s.repo.SumExpenses(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("trend expense bucket: %w", err)
		}

		points = append(points, MonthlyTrendPoint{
			Month:    start.Format("January 2006"),
			Income:   round2(income),
			Expenses: round2(expenses),
			Balance:  round2(income - expenses),
			Start:    start,
		})
	}
	return points, nil
}

// ProductAnalytics values the inventory and flags low stock.
func (s *FinanceService) ProductAnalytics(ctx context.Context) (ProductAnalytics, error) {
	products, err := s.repo.ListProducts(ctx, model.ProductFilter{})
	if err != nil {
		return ProductAnalytics{}, err
	}

	analytics := ProductAnalytics{
		TotalProducts: len(products),
		LowStockItems: []model.Product{},
	}
	seen := map[string]bool{}
	var value float64
	for _, p := range products {
		value += p.Price * float64(p.Quantity)
		if p.Quantity < lowStockLimit {
			analytics.LowStockItems = append(analytics.LowStockItems, p)
		}
		if !seen[p.Category] {
			seen[p.Category] = true
			analytics.Categories = append(analytics.Categories, p.Category)
		}
	}
	analytics.TotalInventoryValue = round2(value)
	sort.Strings(analytics.Categories)
	return analytics, nil
}

// VisualizationData prepares pie and line series for the default window.
func (s *FinanceService) VisualizationData(ctx context.Context) (VisualizationData, error) {
	since := windowStart(defaultWindowDays)

	expenseBreakdown, err := s.repo.ExpensesByCategory(ctx, since)
	if err != nil {
		return VisualizationData{}, err
	}
	incomeBreakdown, err := s.repo.IncomeBySource(ctx, since)
	if err != nil {
		return VisualizationData{}, err
	}
	trend, err := s.MonthlyTrend(ctx, trendMonths)
	if err != nil {
		return VisualizationData{}, err
	}

	data := VisualizationData{
		PieChartExpenses: pieSeries(expenseBreakdown),
		PieChartIncome:   pieSeries(incomeBreakdown),
		LineChartTrend: TrendSeries{
			Months:   make([]string, 0, len(trend)),
			Income:   make([]float64, 0, len(trend)),
			Expenses: make([]float64, 0, len(trend)),
			Balance:  make([]float64, 0, len(trend)),
		},
	}
	for _, point := range trend {
		data.LineChartTrend.Months = append(data.LineChartTrend.Months, point.Month)
		data.LineChartTrend.Income = append(data.LineChartTrend.Income, point.Income)
		data.LineChartTrend.Expenses = append(data.LineChartTrend.Expenses, point.Expenses)
		data.LineChartTrend.Balance = append(data.LineChartTrend.Balance, point.Balance)
	}
	return data, nil
}

// Report assembles the exportable financial report.
func (s *FinanceService) Report(ctx context.Context) (FinancialReport, error) {
	dashboard, err := s.Dashboard(ctx, defaultWindowDays)
	if err != nil {
		return FinancialReport{}, err
	}
	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return FinancialReport{}, err
	}

	return FinancialReport{
		GeneratedAt:        time.Now().UTC(),
		FinancialSummary:   dashboard.Summary,
		ExpenseBreakdown:   dashboard.ExpenseBreakdown,
		IncomeBreakdown:    dashboard.IncomeBreakdown,
		TopExpenses:        dashboard.TopExpenses,
		TopIncome:          dashboard.TopIncome,
		ProductAnalytics:   dashboard.ProductAnalytics,
		MonthlyTrend:       dashboard.MonthlyTrend,
		RecentTransactions: transactions,
	}, nil
}

// ExportableExpenses returns the expense rows included in CSV exports.
func (s *FinanceService) ExportableExpenses(ctx context.Context) ([]model.Expense, error) {
	return s.repo.ListExpenses(ctx, windowStart(exportDays))
}

// pieSeries flattens a breakdown map into parallel label/value slices,
// largest first, ties broken alphabetically so output is deterministic.
func pieSeries(breakdown map[string]float64) PieSeries {
	labels := make([]string, 0, len(breakdown))
	for label := range breakdown {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if breakdown[labels[i]] != breakdown[labels[j]] {
			return breakdown[labels[i]] > breakdown[labels[j]]
		}
		return labels[i] < labels[j]
	})

	series := PieSeries{Labels: labels, Values: make([]float64, 0, len(labels))}
	for _, label := range labels {
		series.Values = append(series.Values, round2(breakdown[label]))
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
