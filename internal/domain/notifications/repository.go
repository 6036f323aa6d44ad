package notifications

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("sms notification not found")

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Notification is one SMS addressed to one staff member about one event.
type Notification struct {
	ID         int64      `json:"id"`
	EventID    int64      `json:"eventId"`
	StaffID    int64      `json:"staffId"`
	Message    string     `json:"message"`
	Status     Status     `json:"status"`
	SentAt     *time.Time `json:"sentAt"`
	ProviderID *string    `json:"providerId"`
	Error      *string    `json:"error"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// DispatchResult summarises one send run.
type DispatchResult struct {
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

type Repository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]Notification, error)
	// CreateBatch inserts all rows atomically, assigning ID and CreatedAt.
	CreateBatch(ctx context.Context, items []*Notification) error
	// UpdateDelivery persists Status, SentAt, ProviderID and Error.
	UpdateDelivery(ctx context.Context, n *Notification) error
}
