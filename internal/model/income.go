package model

import "time"

// Income is immutable once recorded, except for deletion.
type Income struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	IncomeType  string    `json:"income_type"`
}
