package charts

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/ivanoskov/finance_app/internal/service"
)

// Generator renders dashboard figures as PNG images.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// TrendChart renders the monthly income vs expenses trend as a line chart.
// Returns nil bytes when every bucket is zero, since an all-zero chart is
// meaningless.
func (g *Generator) TrendChart(trend []service.MonthlyTrendPoint) ([]byte, error) {
	if len(trend) == 0 || allZero(trend) {
		return nil, nil
	}

	xValues := make([]time.Time, len(trend))
	incomeValues := make([]float64, len(trend))
	expenseValues := make([]float64, len(trend))
	balanceValues := make([]float64, len(trend))
	for i, point := range trend {
		xValues[i] = point.Start
		incomeValues[i] = point.Income
		expenseValues[i] = point.Expenses
		balanceValues[i] = point.Balance
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Balance",
				XValues: xValues,
				YValues: balanceValues,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 3,
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func allZero(trend []service.MonthlyTrendPoint) bool {
	for _, point := range trend {
		if point.Income != 0 || point.Expenses != 0 {
			return false
		}
	}
	return true
}
