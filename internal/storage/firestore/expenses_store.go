package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/expenses"
)

type expenseDoc struct {
	ID          int64      `firestore:"id"`
	EventID     int64      `firestore:"eventId"`
	Description string     `firestore:"description"`
	Amount      int        `firestore:"amount"`
	Category    string     `firestore:"category"`
	Vendor      *string    `firestore:"vendor"`
	PaidAt      *time.Time `firestore:"paidAt"`
	CreatedAt   time.Time  `firestore:"createdAt"`
}

func toExpenseDoc(e *expenses.Expense) expenseDoc {
	return expenseDoc{
		ID:          e.ID,
		EventID:     e.EventID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    string(e.Category),
		Vendor:      e.Vendor,
		PaidAt:      utc(e.PaidAt),
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func (d expenseDoc) expense() expenses.Expense {
	return expenses.Expense{
		ID:          d.ID,
		EventID:     d.EventID,
		Description: d.Description,
		Amount:      d.Amount,
		Category:    expenses.Category(d.Category),
		Vendor:      d.Vendor,
		PaidAt:      utc(d.PaidAt),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type expenseStore struct{ *Store }

func (s *expenseStore) ListByEvent(ctx context.Context, eventID int64) ([]expenses.Expense, error) {
	items, err := collect(ctx, s.col(colExpenses).Where("eventId", "==", eventID), expenseDoc.expense)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	slices.SortFunc(items, func(a, b expenses.Expense) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return items, nil
}

func (s *expenseStore) Get(ctx context.Context, id int64) (*expenses.Expense, error) {
	var d expenseDoc
	if err := s.get(ctx, colExpenses, id, &d, expenses.ErrNotFound); err != nil {
		return nil, err
	}
	e := d.expense()
	return &e, nil
}

func (s *expenseStore) Create(ctx context.Context, e *expenses.Expense) error {
	e.CreatedAt = time.Now().UTC()
	id, err := s.create(ctx, colExpenses, func(id int64) any {
		d := toExpenseDoc(e)
		d.ID = id
		return d
	})
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Update rewrites the mutable fields; the owning event never changes.
func (s *expenseStore) Update(ctx context.Context, e *expenses.Expense) error {
	var current expenseDoc
	if err := s.get(ctx, colExpenses, e.ID, &current, expenses.ErrNotFound); err != nil {
		return err
	}
	d := toExpenseDoc(e)
	d.EventID = current.EventID
	d.CreatedAt = current.CreatedAt
	return s.replace(ctx, colExpenses, e.ID, d, expenses.ErrNotFound)
}

func (s *expenseStore) Delete(ctx context.Context, id int64) error {
	return s.remove(ctx, colExpenses, id, expenses.ErrNotFound)
}
