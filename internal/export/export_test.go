package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func TestExpensesCSV(t *testing.T) {
	date := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	expenses := []model.Expense{
		{ID: 1, Category: "Food", Amount: 12.5, Description: "lunch", Date: date, PaymentMethod: "card"},
		{ID: 2, Category: "Rent", Amount: 900, Date: date, PaymentMethod: "transfer"},
	}

	var buf bytes.Buffer
	if err := ExpensesCSV(&buf, expenses); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 records, got %d rows", len(records))
	}
	if records[0][0] != "id" || records[0][5] != "payment_method" {
		t.Fatalf("unexpected header: %+v", records[0])
	}
	if records[1][2] != "12.50" || records[1][4] != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected record: %+v", records[1])
	}
	if records[2][1] != "Rent" || records[2][3] != "" {
		t.Fatalf("unexpected record: %+v", records[2])
	}
}

func TestExpensesCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExpensesCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if buf.String() != "id,category,amount,description,date,payment_method\n" {
		t.Fatalf("expected header only, got %q", buf.String())
	}
}
