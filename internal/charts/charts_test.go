package charts

import (
	"bytes"
	"testing"
	"time"

	"github.com/ivanoskov/finance_app/internal/service"
)

func TestTrendChartSkipsEmptyData(t *testing.T) {
	g := NewGenerator()

	png, err := g.TrendChart(nil)
	if err != nil || png != nil {
		t.Fatalf("expected nil chart for no data, got %v bytes, err %v", len(png), err)
	}

	allZero := []service.MonthlyTrendPoint{
		{Month: "June 2026", Start: time.Now().AddDate(0, 0, -60)},
		{Month: "July 2026", Start: time.Now().AddDate(0, 0, -30)},
	}
	png, err = g.TrendChart(allZero)
	if err != nil || png != nil {
		t.Fatalf("expected nil chart for all-zero data, got %v bytes, err %v", len(png), err)
	}
}

func TestTrendChartRendersPNG(t *testing.T) {
	g := NewGenerator()

	now := time.Now()
	trend := []service.MonthlyTrendPoint{
		{Month: "June 2026", Income: 4000, Expenses: 2500, Balance: 1500, Start: now.AddDate(0, 0, -60)},
		{Month: "July 2026", Income: 4200, Expenses: 3100, Balance: 1100, Start: now.AddDate(0, 0, -30)},
	}

	png, err := g.TrendChart(trend)
	if err != nil {
		t.Fatalf("render chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatal("expected PNG magic bytes")
	}
}
