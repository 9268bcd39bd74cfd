package model

import "time"

// CartItem references a product and snapshots its price at add time.
// The snapshot is intentional: later product price changes do not affect
// lines already in the cart.
type CartItem struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"price_at_purchase"`
	AddedAt         time.Time `json:"added_at"`
}

// CartLine is a cart item joined with product details for display.
type CartLine struct {
	CartItem
	ProductName     string  `json:"name"`
	ProductCategory string  `json:"category"`
	TotalPrice      float64 `json:"total_price"`
}

// CartSummary aggregates the current cart contents.
type CartSummary struct {
	Items         []CartLine `json:"items"`
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`
	TotalPrice    float64    `json:"total_price"`
}
