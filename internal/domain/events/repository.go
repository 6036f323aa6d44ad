package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusAdvertised Status = "advertised"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusPlanning, StatusAdvertised, StatusCompleted}

// Event is a scheduled committee occasion. Budget is in whole ISK.
type Event struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       *string   `json:"location"`
	Status         Status    `json:"status"`
	PosterURL      *string   `json:"posterUrl"`
	SlackMessageTS *string   `json:"slackMessageTs"`
	Budget         int       `json:"budget"`
	MaxAttendees   *int      `json:"maxAttendees"`
	CreatedAt      time.Time `json:"createdAt"`
}

type CreateParams struct {
	Title          string
	Description    string
	Date           time.Time
	Location       *string
	Status         Status
	PosterURL      *string
	SlackMessageTS *string
	Budget         int
	MaxAttendees   *int
}

// UpdateParams holds a partial update. Nil fields are left unchanged; an empty
// string clears an optional text field and a zero MaxAttendees clears the cap.
type UpdateParams struct {
	Title          *string
	Description    *string
	Date           *time.Time
	Location       *string
	Status         *Status
	PosterURL      *string
	SlackMessageTS *string
	Budget         *int
	MaxAttendees   *int
}

// Repository persists events. Create assigns ID and CreatedAt.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id int64) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
	ExistsOn(ctx context.Context, title string, day time.Time) (bool, error)
}
