package templates

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event template not found")

type RecurrenceType string

const (
	RecurrenceWeekly   RecurrenceType = "weekly"
	RecurrenceBiweekly RecurrenceType = "biweekly"
	RecurrenceMonthly  RecurrenceType = "monthly"
)

var RecurrenceTypes = []RecurrenceType{RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly}

// Template is a reusable event blueprint. Recurring templates carry the rule
// used to schedule their next occurrence.
type Template struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Location            *string         `json:"location"`
	Budget              int             `json:"budget"`
	MaxAttendees        *int            `json:"maxAttendees"`
	IsRecurring         bool            `json:"isRecurring"`
	RecurringType       *RecurrenceType `json:"recurringType"`
	RecurringDayOfWeek  *int            `json:"recurringDayOfWeek"`
	RecurringDayOfMonth *int            `json:"recurringDayOfMonth"`
	CreatedAt           time.Time       `json:"createdAt"`
}

type CreateParams struct {
	Name                string
	Title               string
	Description         string
	Location            *string
	Budget              int
	MaxAttendees        *int
	IsRecurring         bool
	RecurringType       *RecurrenceType
	RecurringDayOfWeek  *int
	RecurringDayOfMonth *int
}

type UpdateParams struct {
	Name                *string
	Title               *string
	Description         *string
	Location            *string
	Budget              *int
	MaxAttendees        *int
	IsRecurring         *bool
	RecurringType       *RecurrenceType
	RecurringDayOfWeek  *int
	RecurringDayOfMonth *int
}

type Repository interface {
	List(ctx context.Context) ([]Template, error)
	Get(ctx context.Context, id int64) (*Template, error)
	Create(ctx context.Context, template *Template) error
	Update(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id int64) error
}
