package model

import "time"

// Product is a tracked inventory item. Quantity is decremented by checkout.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows product listings. Zero values mean no filtering.
type ProductFilter struct {
	Category string
	Search   string
}
