package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	now := time.Now()
	p.CreatedAt = now.UTC().Truncate(time.Second)
	p.UpdatedAt = p.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, quantity, category, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Quantity, p.Category, p.Description,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("insert product: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read product id: %w", err)
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, quantity, category, description, created_at, updated_at
		 FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `SELECT id, name, price, quantity, category, description, created_at, updated_at
		FROM products`
	var args []any
	switch {
	case filter.Category != "":
		query += ` WHERE category = ? ORDER BY name`
		args = append(args, filter.Category)
	case filter.Search != "":
		query += ` WHERE name LIKE ? ORDER BY name`
		args = append(args, "%"+filter.Search+"%")
	default:
		query += ` ORDER BY category, name`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, quantity = ?, category = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Price, p.Quantity, p.Category, p.Description, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var (
		p                  model.Product
		createdAt, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Category, &p.Description, &createdAt, &updated); err != nil {
		return model.Product{}, err
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Product{}, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Product{}, err
	}
	return p, nil
}
