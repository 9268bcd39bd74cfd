// Package export renders stored records into portable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

// ExpensesCSV writes expenses as CSV with a header row, matching the column
// order of the expenses table.
func ExpensesCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "category", "amount", "description", "date", "payment_method"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Category,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Description,
			e.Date.UTC().Format(time.RFC3339),
			e.PaymentMethod,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
