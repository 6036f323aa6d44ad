package expenses

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/sanitize"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
)

// EventReader resolves the event an expense is booked against.
type EventReader interface {
	Get(ctx context.Context, id int64) (*events.Event, error)
}

type Service struct {
	repo   Repository
	events EventReader
	logger zerolog.Logger
}

func NewService(repo Repository, events EventReader, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: events,
		logger: logger.With().Str("component", "expenses").Logger(),
	}
}

// ListByEvent returns the event's expenses, newest first. Returns
// events.ErrNotFound when the event does not exist.
func (s *Service) ListByEvent(ctx context.Context, eventID int64) ([]Expense, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Service) Create(ctx context.Context, eventID int64, params CreateParams) (*Expense, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	expense := &Expense{
		EventID:     eventID,
		Description: sanitize.Text(strings.TrimSpace(params.Description)),
		Amount:      params.Amount,
		Category:    params.Category,
		Vendor:      vendor(params.Vendor),
		PaidAt:      paidAt(params.PaidAt),
	}
	if expense.Category == "" {
		expense.Category = CategoryOther
	}
	if err := validate(expense); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	s.logger.Info().
		Int64("event_id", eventID).
		Int64("expense_id", expense.ID).
		Int("amount", expense.Amount).
		Msg("expense recorded")
	return expense, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Expense, error) {
	expense, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Description != nil {
		expense.Description = sanitize.Text(strings.TrimSpace(*params.Description))
	}
	if params.Amount != nil {
		expense.Amount = *params.Amount
	}
	if params.Category != nil {
		expense.Category = *params.Category
	}
	if params.Vendor != nil {
		expense.Vendor = vendor(params.Vendor)
	}
	if params.PaidAt != nil {
		expense.PaidAt = paidAt(params.PaidAt)
	}
	if err := validate(expense); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Summary totals the event's expenses against its budget.
func (s *Service) Summary(ctx context.Context, eventID int64) (*Summary, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return Summarize(event, items), nil
}

// Summarize aggregates items, which must all belong to event.
func Summarize(event *events.Event, items []Expense) *Summary {
	summary := &Summary{
		EventID:      event.ID,
		Budget:       event.Budget,
		ByCategory:   make(map[Category]int),
		ExpenseCount: len(items),
	}
	for _, e := range items {
		summary.Spent += e.Amount
		summary.ByCategory[e.Category] += e.Amount
	}
	summary.Remaining = summary.Budget - summary.Spent
	return summary
}

func validate(e *Expense) error {
	if err := validation.Required("description", e.Description); err != nil {
		return err
	}
	if err := validation.NonNegative("amount", e.Amount); err != nil {
		return err
	}
	return validation.OneOf("category", e.Category, Categories...)
}

func vendor(v *string) *string {
	if v == nil {
		return nil
	}
	clean := sanitize.Text(strings.TrimSpace(*v))
	if clean == "" {
		return nil
	}
	return &clean
}

func paidAt(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}
