package meetings

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("meeting not found")

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusScheduled, StatusCompleted}

// Meeting is a committee planning session. LoopLink points at an external
// document; Minutes is free text with limited HTML formatting.
type Meeting struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Date          time.Time `json:"date"`
	ChairpersonID *int64    `json:"chairpersonId"`
	SecretaryID   *int64    `json:"secretaryId"`
	LoopLink      *string   `json:"loopLink"`
	Minutes       *string   `json:"minutes"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type CreateParams struct {
	Title         string
	Date          time.Time
	ChairpersonID *int64
	SecretaryID   *int64
	LoopLink      *string
	Minutes       *string
	Status        Status
}

// UpdateParams is a partial update; nil leaves a field unchanged, an empty
// string or a zero id clears it.
type UpdateParams struct {
	Title         *string
	Date          *time.Time
	ChairpersonID *int64
	SecretaryID   *int64
	LoopLink      *string
	Minutes       *string
	Status        *Status
}

type Repository interface {
	List(ctx context.Context) ([]Meeting, error)
	Get(ctx context.Context, id int64) (*Meeting, error)
	Create(ctx context.Context, meeting *Meeting) error
	Update(ctx context.Context, meeting *Meeting) error
	Delete(ctx context.Context, id int64) error
}
