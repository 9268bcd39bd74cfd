package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func (s *Store) CreateExpense(ctx context.Context, e *model.Expense) error {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	e.Date = e.Date.UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (category, amount, description, date, payment_method)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Category, e.Amount, e.Description, formatTime(e.Date), e.PaymentMethod)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read expense id: %w", err)
	}
	return nil
}

// ListExpenses returns expenses dated at or after since, newest first.
// A zero since means no lower bound.
func (s *Store) ListExpenses(ctx context.Context, since time.Time) ([]model.Expense, error) {
	query := `SELECT id, category, amount, description, date, payment_method FROM expenses`
	var args []any
	if !since.IsZero() {
		query += ` WHERE date >= ?`
		args = append(args, formatTime(since))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		var (
			e   model.Expense
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &raw, &e.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseTime(raw); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumExpenses totals expense amounts in [from, to). A zero bound is open.
func (s *Store) SumExpenses(ctx context.Context, from, to time.Time) (float64, error) {
	return s.sumAmounts(ctx, "expenses", from, to)
}

// ExpensesByCategory groups expense totals by category for records dated at
// or after since.
func (s *Store) ExpensesByCategory(ctx context.Context, since time.Time) (map[string]float64, error) {
	return s.groupAmounts(ctx, `SELECT category, SUM(amount) FROM expenses WHERE date >= ? GROUP BY category`, since)
}

func (s *Store) TopExpenses(ctx context.Context, since time.Time, limit int) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, amount, description, date, payment_method
		 FROM expenses WHERE date >= ? ORDER BY amount DESC LIMIT ?`,
		formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("top expenses: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		var (
			e   model.Expense
			raw string
		)
		if err := rows.Scan(&e.ID, &e.Category, &e.Amount, &e.Description, &raw, &e.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseTime(raw); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) sumAmounts(ctx context.Context, table string, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM ` + table
	var (
		args  []any
		conds []string
	)
	if !from.IsZero() {
		conds = append(conds, `date >= ?`)
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, `date < ?`)
		args = append(args, formatTime(to))
	}
	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}

	var total float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum %s: %w", table, err)
	}
	return total, nil
}

func (s *Store) groupAmounts(ctx context.Context, query string, since time.Time) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("group amounts: %w", err)
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var (
			key   string
			total float64
		)
		if err := rows.Scan(&key, &total); err != nil {
			return nil, fmt.Errorf("scan group total: %w", err)
		}
		totals[key] = total
	}
	return totals, rows.Err()
}
