package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
)

type notificationDoc struct {
	ID         int64      `firestore:"id"`
	EventID    int64      `firestore:"eventId"`
	StaffID    int64      `firestore:"staffId"`
	Message    string     `firestore:"message"`
	Status     string     `firestore:"status"`
	SentAt     *time.Time `firestore:"sentAt"`
	ProviderID *string    `firestore:"providerId"`
	Error      *string    `firestore:"error"`
	CreatedAt  time.Time  `firestore:"createdAt"`
}

func (d notificationDoc) notification() notifications.Notification {
	return notifications.Notification{
		ID:         d.ID,
		EventID:    d.EventID,
		StaffID:    d.StaffID,
		Message:    d.Message,
		Status:     notifications.Status(d.Status),
		SentAt:     utc(d.SentAt),
		ProviderID: d.ProviderID,
		Error:      d.Error,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

type notificationStore struct{ *Store }

func (s *notificationStore) ListByEvent(ctx context.Context, eventID int64) ([]notifications.Notification, error) {
	items, err := collect(ctx, s.col(colNotifications).Where("eventId", "==", eventID), notificationDoc.notification)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	slices.SortFunc(items, func(a, b notifications.Notification) int { return cmp.Compare(a.ID, b.ID) })
	return items, nil
}

// CreateBatch reserves all ids and writes every row in one transaction.
func (s *notificationStore) CreateBatch(ctx context.Context, items []*notifications.Notification) error {
	if len(items) == 0 {
		return nil
	}
	createdAt := time.Now().UTC()
	var first int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var err error
		first, err = s.allocate(tx, colNotifications, len(items))
		if err != nil {
			return err
		}
		for i, n := range items {
			id := first + int64(i)
			doc := notificationDoc{
				ID:        id,
				EventID:   n.EventID,
				StaffID:   n.StaffID,
				Message:   n.Message,
				Status:    string(n.Status),
				CreatedAt: createdAt,
			}
			if err := tx.Create(s.doc(colNotifications, id), doc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	for i, n := range items {
		n.ID = first + int64(i)
		n.CreatedAt = createdAt
	}
	return nil
}

func (s *notificationStore) UpdateDelivery(ctx context.Context, n *notifications.Notification) error {
	var current notificationDoc
	if err := s.get(ctx, colNotifications, n.ID, &current, notifications.ErrNotFound); err != nil {
		return err
	}
	current.Status = string(n.Status)
	current.SentAt = utc(n.SentAt)
	current.ProviderID = n.ProviderID
	current.Error = n.Error
	return s.replace(ctx, colNotifications, n.ID, current, notifications.ErrNotFound)
}
