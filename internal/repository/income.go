package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ivanoskov/finance_app/internal/model"
)

func (s *Store) CreateIncome(ctx context.Context, in *model.Income) error {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = in.Date.UTC().Truncate(time.Second)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO income (source, amount, description, date, income_type)
		 VALUES (?, ?, ?, ?, ?)`,
		in.Source, in.Amount, in.Description, formatTime(in.Date), in.IncomeType)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}

	in.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read income id: %w", err)
	}
	return nil
}

// ListIncome returns income records dated at or after since, newest first.
// A zero since means no lower bound.
func (s *Store) ListIncome(ctx context.Context, since time.Time) ([]model.Income, error) {
	query := `SELECT id, source, amount, description, date, income_type FROM income`
	var args []any
	if !since.IsZero() {
		query += ` WHERE date >= ?`
		args = append(args, formatTime(since))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	records := []model.Income{}
	for rows.Next() {
		var (
			in  model.Income
			raw string
		)
		if err := rows.Scan(&in.ID, &in.Source, &in.Amount, &in.Description, &raw, &in.IncomeType); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = parseTime(raw); err != nil {
			return nil, err
		}
		records = append(records, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate income: %w", err)
	}
	return records, nil
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM income WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SumIncome totals income amounts in [from, to). A zero bound is open.
func (s *Store) SumIncome(ctx context.Context, from, to time.Time) (float64, error) {
	return s.sumAmounts(ctx, "income", from, to)
}

// IncomeBySource groups income totals by source for records dated at or
// after since.
func (s *Store) IncomeBySource(ctx context.Context, since time.Time) (map[string]float64, error) {
	return s.groupAmounts(ctx, `SELECT source, SUM(amount) FROM income WHERE date >= ? GROUP BY source`, since)
}

func (s *Store) TopIncome(ctx context.Context, since time.Time, limit int) ([]model.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, amount, description, date, income_type
		 FROM income WHERE date >= ? ORDER BY amount DESC LIMIT ?`,
		formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("top income: %w", err)
	}
	defer rows.Close()

	records := []model.Income{}
	for rows.Next() {
		var (
			in  model.Income
			raw string
		)
		if err := rows.Scan(&in.ID, &in.Source, &in.Amount, &in.Description, &raw, &in.IncomeType); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = parseTime(raw); err != nil {
			return nil, err
		}
		records = append(records, in)
	}
	return records, rows.Err()
}
