package expenses

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("expense not found")

type Category string

const (
	CategoryFood          Category = "food"
	CategoryDecorations   Category = "decorations"
	CategoryEntertainment Category = "entertainment"
	CategoryVenue         Category = "venue"
	CategoryEquipment     Category = "equipment"
	CategoryPrizes        Category = "prizes"
	CategoryOther         Category = "other"
)

var Categories = []Category{
	CategoryFood, CategoryDecorations, CategoryEntertainment, CategoryVenue,
	CategoryEquipment, CategoryPrizes, CategoryOther,
}

// Expense is money spent against an event's budget, in whole ISK.
type Expense struct {
	ID          int64      `json:"id"`
	EventID     int64      `json:"eventId"`
	Description string     `json:"description"`
	Amount      int        `json:"amount"`
	Category    Category   `json:"category"`
	Vendor      *string    `json:"vendor"`
	PaidAt      *time.Time `json:"paidAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CreateParams struct {
	Description string
	Amount      int
	Category    Category
	Vendor      *string
	PaidAt      *time.Time
}

// UpdateParams is a partial update. An empty Vendor or a zero PaidAt clears
// the field.
type UpdateParams struct {
	Description *string
	Amount      *int
	Category    *Category
	Vendor      *string
	PaidAt      *time.Time
}

// Summary aggregates an event's spending against its budget. Remaining goes
// negative when the event is over budget.
type Summary struct {
	EventID      int64            `json:"eventId"`
	Budget       int              `json:"budget"`
	Spent        int              `json:"spent"`
	Remaining    int              `json:"remaining"`
	ByCategory   map[Category]int `json:"byCategory"`
	ExpenseCount int              `json:"expenseCount"`
}

type Repository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Create(ctx context.Context, expense *Expense) error
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id int64) error
}
