// Package firestore stores the portal's collections in Cloud Firestore.
//
// Documents are keyed by the decimal form of their integer ID. IDs come from
// a per-collection counter document that is advanced inside the same
// transaction that creates the documents.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/expenses"
	"github.com/Togather-Foundation/glee/internal/domain/meetings"
	"github.com/Togather-Foundation/glee/internal/domain/notifications"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/domain/tasks"
	"github.com/Togather-Foundation/glee/internal/domain/templates"
	"github.com/Togather-Foundation/glee/internal/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	colEvents        = "events"
	colMeetings      = "meetings"
	colTasks         = "tasks"
	colStaff         = "staff"
	colExpenses      = "expenses"
	colTemplates     = "event_templates"
	colNotifications = "sms_notifications"
	colCounters      = "_counters"
)

var _ storage.Repository = (*Store)(nil)

type Store struct {
	client *firestore.Client
	prefix string
}

// Open connects to the project. FIRESTORE_EMULATOR_HOST is honoured by the
// client library.
func Open(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return New(client, ""), nil
}

// New wraps an existing client. Every collection name is prefixed with
// prefix, which lets tests share one emulator project.
func New(client *firestore.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Events() events.Repository               { return &eventStore{s} }
func (s *Store) Meetings() meetings.Repository           { return &meetingStore{s} }
func (s *Store) Tasks() tasks.Repository                 { return &taskStore{s} }
func (s *Store) Staff() staff.Repository                 { return &staffStore{s} }
func (s *Store) Notifications() notifications.Repository { return &notificationStore{s} }
func (s *Store) Expenses() expenses.Repository           { return &expenseStore{s} }
func (s *Store) Templates() templates.Repository         { return &templateStore{s} }

// WithTx runs fn against the store itself. Multi-document atomicity is
// only provided inside single repository calls (cascade delete, batch insert).
func (s *Store) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	return fn(ctx, s)
}

func (s *Store) Ping(ctx context.Context) error {
	iter := s.col(colCounters).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("ping firestore: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) col(name string) *firestore.CollectionRef {
	return s.client.Collection(s.prefix + name)
}

func (s *Store) doc(collection string, id int64) *firestore.DocumentRef {
	return s.col(collection).Doc(strconv.FormatInt(id, 10))
}

// allocate reserves n consecutive ids for collection and returns the first.
// It reads before it writes, so callers must not have written in tx yet.
func (s *Store) allocate(tx *firestore.Transaction, collection string, n int) (int64, error) {
	ref := s.col(colCounters).Doc(collection)
	var last int64
	snap, err := tx.Get(ref)
	switch {
	case err == nil:
		v, err := snap.DataAt("next")
		if err != nil {
			return 0, fmt.Errorf("read %s counter: %w", collection, err)
		}
		last, _ = v.(int64)
	case isNotFound(err):
	default:
		return 0, fmt.Errorf("read %s counter: %w", collection, err)
	}
	if err := tx.Set(ref, map[string]any{"next": last + int64(n)}); err != nil {
		return 0, fmt.Errorf("advance %s counter: %w", collection, err)
	}
	return last + 1, nil
}

// create allocates an id and writes the document built for it.
func (s *Store) create(ctx context.Context, collection string, build func(id int64) any) (int64, error) {
	var id int64
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		first, err := s.allocate(tx, collection, 1)
		if err != nil {
			return err
		}
		id = first
		return tx.Create(s.doc(collection, id), build(id))
	})
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) get(ctx context.Context, collection string, id int64, dst any, notFound error) error {
	snap, err := s.doc(collection, id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return notFound
		}
		return fmt.Errorf("get %s: %w", collection, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// replace overwrites an existing document; missing documents yield notFound.
func (s *Store) replace(ctx context.Context, collection string, id int64, data any, notFound error) error {
	ref := s.doc(collection, id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return notFound
			}
			return err
		}
		return tx.Set(ref, data)
	})
	if err != nil && !errors.Is(err, notFound) {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return err
}

func (s *Store) remove(ctx context.Context, collection string, id int64, notFound error) error {
	if _, err := s.doc(collection, id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return notFound
		}
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}

// collect decodes every document matched by q.
func collect[D any, T any](ctx context.Context, q firestore.Query, convert func(D) T) ([]T, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()
	var out []T
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var d D
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, convert(d))
	}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
