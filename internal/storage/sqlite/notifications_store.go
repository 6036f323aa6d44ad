package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/notifications"
)

type notificationStore struct{ *Store }

const notificationColumns = `id, event_id, staff_id, message, status, sent_at, provider_id, error, created_at`

func scanNotification(row scanner) (notifications.Notification, error) {
	var n notifications.Notification
	var status string
	var sentAt sql.NullInt64
	var createdAt int64
	if err := row.Scan(&n.ID, &n.EventID, &n.StaffID, &n.Message, &status, &sentAt, &n.ProviderID, &n.Error, &createdAt); err != nil {
		return notifications.Notification{}, err
	}
	n.Status = notifications.Status(status)
	n.SentAt = fromNullMillis(sentAt)
	n.CreatedAt = fromMillis(createdAt)
	return n, nil
}

func (s *notificationStore) ListByEvent(ctx context.Context, eventID int64) ([]notifications.Notification, error) {
	rows, err := s.conn().QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM sms_notifications WHERE event_id = ? ORDER BY id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

func (s *notificationStore) CreateBatch(ctx context.Context, items []*notifications.Notification) error {
	if len(items) == 0 {
		return nil
	}
	return s.inTx(ctx, func(c execer) error {
		createdAt := now()
		for _, n := range items {
			id, err := insert(ctx, c, "insert notification", `
INSERT INTO sms_notifications (event_id, staff_id, message, status, created_at)
VALUES (?, ?, ?, ?, ?)`,
				n.EventID, n.StaffID, n.Message, string(n.Status), toMillis(createdAt),
			)
			if err != nil {
				return err
			}
			n.ID = id
			n.CreatedAt = createdAt
		}
		return nil
	})
}

func (s *notificationStore) UpdateDelivery(ctx context.Context, n *notifications.Notification) error {
	return execOne(ctx, s.conn(), "update notification", notifications.ErrNotFound, `
UPDATE sms_notifications
   SET status = ?, sent_at = ?, provider_id = ?, error = ?
 WHERE id = ?`,
		string(n.Status), nullMillis(n.SentAt), n.ProviderID, n.Error, n.ID,
	)
}
