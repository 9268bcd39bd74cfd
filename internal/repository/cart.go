package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func (s *Store) AddCartItem(ctx context.Context, item *model.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	item.AddedAt = item.AddedAt.UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cart (product_id, quantity, price_at_purchase, added_at)
		 VALUES (?, ?, ?, ?)`,
		item.ProductID, item.Quantity, item.PriceAtPurchase, formatTime(item.AddedAt))
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}

	item.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read cart item id: %w", err)
	}
	return nil
}

// ListCart returns cart items joined with product details, newest first.
func (s *Store) ListCart(ctx context.Context) ([]model.CartLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.product_id, c.quantity, c.price_at_purchase, c.added_at, p.name, p.category
		 FROM cart c
		 JOIN products p ON p.id = c.product_id
		 ORDER BY c.added_at DESC, c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var (
			line model.CartLine
			raw  string
		)
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Quantity, &line.PriceAtPurchase,
			&raw, &line.ProductName, &line.ProductCategory); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		if line.AddedAt, err = parseTime(raw); err != nil {
			return nil, err
		}
		line.TotalPrice = round2(float64(line.Quantity) * line.PriceAtPurchase)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart: %w", err)
	}
	return lines, nil
}

func (s *Store) DeleteCartItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cart WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Checkout converts the whole cart into a single transactions row inside one
// SQL transaction. Every line either decrements its product's stock or the
// entire checkout rolls back: the conditional UPDATE refuses to take stock
// below zero, so two concurrent checkouts cannot both consume the same units.
func (s *Store) Checkout(ctx context.Context) (model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, product_id, quantity, price_at_purchase FROM cart ORDER BY id`)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("read cart: %w", err)
	}

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
			rows.Close()
			return model.Transaction{}, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Close(); err != nil {
		return model.Transaction{}, fmt.Errorf("read cart: %w", err)
	}
	if len(items) == 0 {
		return model.Transaction{}, ErrEmptyCart
	}

	now := time.Now().UTC().Truncate(time.Second)
	var total float64
	for _, item := range items {
		res, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - ?, updated_at = ? WHERE id = ? AND quantity >= ?`,
			item.Quantity, formatTime(now), item.ProductID, item.Quantity)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return model.Transaction{}, fmt.Errorf("decrement stock for product %d: %w", item.ProductID, err)
		}
		if affected == 0 {
			var available int
			err := tx.QueryRowContext(ctx, `SELECT quantity FROM products WHERE id = ?`, item.ProductID).Scan(&available)
			if errors.Is(err, sql.ErrNoRows) {
				return model.Transaction{}, fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
			}
			if err != nil {
				return model.Transaction{}, fmt.Errorf("check stock for product %d: %w", item.ProductID, err)
			}
			return model.Transaction{}, &InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: available,
			}
		}
		total += float64(item.Quantity) * item.PriceAtPurchase
	}

	txn := model.Transaction{
		TotalAmount:     round2(total),
		TransactionType: "purchase",
		ItemsCount:      len(items),
		Date:            now,
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (total_amount, transaction_type, items_count, date) VALUES (?, ?, ?, ?)`,
		txn.TotalAmount, txn.TransactionType, txn.ItemsCount, formatTime(txn.Date))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	if txn.ID, err = res.LastInsertId(); err != nil {
		return model.Transaction{}, fmt.Errorf("read transaction id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart`); err != nil {
		return model.Transaction{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Transaction{}, fmt.Errorf("commit checkout: %w", err)
	}
	return txn, nil
}

// ListTransactions returns checkout history, newest first.
func (s *Store) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, total_amount, transaction_type, items_count, date
		 FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []model.Transaction{}
	for rows.Next() {
		var (
			txn model.Transaction
			raw string
		)
		if err := rows.Scan(&txn.ID, &txn.TotalAmount, &txn.TransactionType, &txn.ItemsCount, &raw); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if txn.Date, err = parseTime(raw); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
