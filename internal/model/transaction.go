package model

import "time"

// Transaction is a completed checkout. Rows are created only by checkout
// and are never updated or deleted.
type Transaction struct {
	ID              int64     `json:"id"`
	TotalAmount     float64   `json:"total_amount"`
	TransactionType string    `json:"transaction_type"`
	ItemsCount      int       `json:"items_count"`
	Date            time.Time `json:"date"`
}
