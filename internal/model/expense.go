package model

import "time"

// Expense is immutable once recorded, except for deletion.
type Expense struct {
	ID            int64     `json:"id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"payment_method"`
}
