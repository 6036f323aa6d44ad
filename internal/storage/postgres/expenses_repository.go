package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/jackc/pgx/v5"
)

var _ expenses.Repository = (*ExpenseRepository)(nil)

type ExpenseRepository struct {
	conn
}

const expenseColumns = `id, event_id, description, amount, category, vendor, paid_at, created_at`

func scanExpense(row pgx.Row) (expenses.Expense, error) {
	var e expenses.Expense
	var category string
	if err := row.Scan(&e.ID, &e.EventID, &e.Description, &e.Amount, &category, &e.Vendor, &e.PaidAt, &e.CreatedAt); err != nil {
		return expenses.Expense{}, err
	}
	e.Category = expenses.Category(category)
	e.PaidAt = utc(e.PaidAt)
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

func (r *ExpenseRepository) ListByEvent(ctx context.Context, eventID int64) ([]expenses.Expense, error) {
	rows, err := r.queryer().Query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE event_id = $1 ORDER BY created_at DESC, id DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (expenses.Expense, error) {
		return scanExpense(row)
	})
}

func (r *ExpenseRepository) Get(ctx context.Context, id int64) (*expenses.Expense, error) {
	e, err := scanExpense(r.queryer().QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expenses.ErrNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expenses.Expense) error {
	err := r.queryer().QueryRow(ctx, `
INSERT INTO expenses (event_id, description, amount, category, vendor, paid_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`,
		e.EventID, e.Description, e.Amount, string(e.Category), e.Vendor, e.PaidAt,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return nil
}

func (r *ExpenseRepository) Update(ctx context.Context, e *expenses.Expense) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE expenses
   SET description = $2, amount = $3, category = $4, vendor = $5, paid_at = $6
 WHERE id = $1`,
		e.ID, e.Description, e.Amount, string(e.Category), e.Vendor, e.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expenses.ErrNotFound
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return expenses.ErrNotFound
	}
	return nil
}
