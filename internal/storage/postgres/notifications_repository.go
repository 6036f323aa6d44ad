package postgres

import (
	"context"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/jackc/pgx/v5"
)

var _ notifications.Repository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	conn
}

const notificationColumns = `id, event_id, staff_id, message, status, sent_at, provider_id, error, created_at`

func scanNotification(row pgx.Row) (notifications.Notification, error) {
	var n notifications.Notification
	var status string
	if err := row.Scan(&n.ID, &n.EventID, &n.StaffID, &n.Message, &status, &n.SentAt, &n.ProviderID, &n.Error, &n.CreatedAt); err != nil {
		return notifications.Notification{}, err
	}
	n.Status = notifications.Status(status)
	n.SentAt = utc(n.SentAt)
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (r *NotificationRepository) ListByEvent(ctx context.Context, eventID int64) ([]notifications.Notification, error) {
	rows, err := r.queryer().Query(ctx,
		`SELECT `+notificationColumns+` FROM sms_notifications WHERE event_id = $1 ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (notifications.Notification, error) {
		return scanNotification(row)
	})
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, items []*notifications.Notification) error {
	if len(items) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.beginner(), func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, n := range items {
			batch.Queue(`
INSERT INTO sms_notifications (event_id, staff_id, message, status)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`,
				n.EventID, n.StaffID, n.Message, string(n.Status),
			)
		}
		results := tx.SendBatch(ctx, batch)
		for _, n := range items {
			if err := results.QueryRow().Scan(&n.ID, &n.CreatedAt); err != nil {
				_ = results.Close()
				return fmt.Errorf("insert notification: %w", err)
			}
			n.CreatedAt = n.CreatedAt.UTC()
		}
		return results.Close()
	})
}

func (r *NotificationRepository) UpdateDelivery(ctx context.Context, n *notifications.Notification) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE sms_notifications
   SET status = $2, sent_at = $3, provider_id = $4, error = $5
 WHERE id = $1`,
		n.ID, string(n.Status), n.SentAt, n.ProviderID, n.Error,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotFound
	}
	return nil
}
