package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/expenses"
)

type expenseStore struct{ *Store }

const expenseColumns = `id, event_id, description, amount, category, vendor, paid_at, created_at`

func scanExpense(row scanner) (expenses.Expense, error) {
	var e expenses.Expense
	var category string
	var paidAt sql.NullInt64
	var createdAt int64
	if err := row.Scan(&e.ID, &e.EventID, &e.Description, &e.Amount, &category, &e.Vendor, &paidAt, &createdAt); err != nil {
		return expenses.Expense{}, err
	}
	e.Category = expenses.Category(category)
	e.PaidAt = fromNullMillis(paidAt)
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func (s *expenseStore) ListByEvent(ctx context.Context, eventID int64) ([]expenses.Expense, error) {
	rows, err := s.conn().QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE event_id = ? ORDER BY created_at DESC, id DESC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return collect(rows, scanExpense)
}

func (s *expenseStore) Get(ctx context.Context, id int64) (*expenses.Expense, error) {
	e, err := scanExpense(s.conn().QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, expenses.ErrNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

func (s *expenseStore) Create(ctx context.Context, e *expenses.Expense) error {
	createdAt := now()
	id, err := insert(ctx, s.conn(), "insert expense", `
INSERT INTO expenses (event_id, description, amount, category, vendor, paid_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.Description, e.Amount, string(e.Category), e.Vendor, nullMillis(e.PaidAt), toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	e.ID = id
	e.CreatedAt = createdAt
	return nil
}

func (s *expenseStore) Update(ctx context.Context, e *expenses.Expense) error {
	return execOne(ctx, s.conn(), "update expense", expenses.ErrNotFound, `
UPDATE expenses
   SET description = ?, amount = ?, category = ?, vendor = ?, paid_at = ?
 WHERE id = ?`,
		e.Description, e.Amount, string(e.Category), e.Vendor, nullMillis(e.PaidAt), e.ID,
	)
}

func (s *expenseStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete expense", expenses.ErrNotFound, `DELETE FROM expenses WHERE id = ?`, id)
}
