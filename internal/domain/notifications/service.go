package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/Togather-Foundation/glee/internal/metrics"
	"github.com/Togather-Foundation/glee/internal/sms"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type EventReader interface {
	Get(ctx context.Context, id int64) (*events.Event, error)
}

type StaffLister interface {
	List(ctx context.Context) ([]staff.Member, error)
}

type Service struct {
	repo        Repository
	events      EventReader
	staff       StaffLister
	sender      sms.Sender
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService wires the notification pipeline. concurrency bounds the number
// of in-flight provider sends during Dispatch.
func NewService(repo Repository, events EventReader, staff StaffLister, sender sms.Sender, concurrency int, logger zerolog.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		repo:        repo,
		events:      events,
		staff:       staff,
		sender:      sender,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger.With().Str("component", "notifications").Logger(),
	}
}

// Queue records a pending notification for each staff id.
func (s *Service) Queue(ctx context.Context, eventID int64, staffIDs []int64, message string) ([]Notification, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if err := validation.Required("message", message); err != nil {
		return nil, err
	}
	if len(staffIDs) == 0 {
		return nil, validation.Error{Field: "staffIds", Message: "must contain at least one staff member"}
	}

	rows := make([]*Notification, len(staffIDs))
	for i, id := range staffIDs {
		if id <= 0 {
			return nil, validation.Error{Field: "staffIds", Message: "must contain positive ids"}
		}
		rows[i] = &Notification{EventID: eventID, StaffID: id, Message: message, Status: StatusPending}
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("queue notifications: %w", err)
	}

	out := make([]Notification, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	s.logger.Info().Int64("event_id", eventID).Int("count", len(out)).Msg("sms notifications queued")
	return out, nil
}

// ListForEvent returns the event's notifications, oldest first.
func (s *Service) ListForEvent(ctx context.Context, eventID int64) ([]Notification, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Dispatch sends every pending notification for the event. Each row is
// marked sent or failed on its own; a failed status write is logged and does
// not stop the remaining sends.
func (s *Service) Dispatch(ctx context.Context, eventID int64) (DispatchResult, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return DispatchResult{}, err
	}
	items, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list notifications: %w", err)
	}

	pending := make([]Notification, 0, len(items))
	for _, n := range items {
		if n.Status == StatusPending {
			pending = append(pending, n)
		}
	}
	logger := s.logger.With().Int64("event_id", event.ID).Logger()
	if len(pending) == 0 {
		logger.Info().Int("total", len(items)).Msg("no pending notifications")
		return DispatchResult{Message: "No pending notifications"}, nil
	}

	members, err := s.staff.List(ctx)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list staff: %w", err)
	}
	phones := make(map[int64]string, len(members))
	for _, m := range members {
		phones[m.ID] = m.Phone
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range pending {
		n := &pending[i]
		g.Go(func() error {
			if s.deliver(ctx, logger, n, phones) {
				sent.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := DispatchResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	result.Message = fmt.Sprintf("Sent %d message(s), %d failed", result.Sent, result.Failed)
	logger.Info().Int("sent", result.Sent).Int("failed", result.Failed).Msg("sms dispatch finished")
	return result, nil
}

// deliver sends one notification and records the outcome. It reports whether
// the provider accepted the message.
func (s *Service) deliver(ctx context.Context, logger zerolog.Logger, n *Notification, phones map[int64]string) bool {
	phone, ok := phones[n.StaffID]
	var sendErr error
	switch {
	case !ok:
		sendErr = errors.New("staff member not found")
	case phone == "":
		sendErr = errors.New("staff member has no phone number")
	default:
		var res sms.Result
		res, sendErr = s.sender.Send(ctx, phone, n.Message)
		if sendErr == nil {
			n.Status = StatusSent
			n.ProviderID = &res.SID
			n.Error = nil
		}
	}

	sentAt := s.now().UTC()
	n.SentAt = &sentAt
	if sendErr != nil {
		msg := sendErr.Error()
		n.Status = StatusFailed
		n.Error = &msg
		result := "failed"
		if !ok || phone == "" {
			result = "skipped"
		}
		metrics.SMSMessagesTotal.WithLabelValues(result).Inc()
		logger.Warn().
			Err(sendErr).
			Int64("notification_id", n.ID).
			Int64("staff_id", n.StaffID).
			Msg("sms not delivered")
	} else {
		metrics.SMSMessagesTotal.WithLabelValues("sent").Inc()
	}

	if err := s.repo.UpdateDelivery(ctx, n); err != nil {
		logger.Error().
			Err(err).
			Int64("notification_id", n.ID).
			Str("status", string(n.Status)).
			Msg("failed to record sms delivery status")
	}
	return n.Status == StatusSent
}

// Broadcast queues message for every staff member (only active ones when
// activeOnly is set) and dispatches all pending notifications for the event.
func (s *Service) Broadcast(ctx context.Context, eventID int64, message string, activeOnly bool) (DispatchResult, error) {
	members, err := s.staff.List(ctx)
	if err != nil {
		return DispatchResult{}, fmt.Errorf("list staff: %w", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if activeOnly && !m.IsActive {
			continue
		}
		ids = append(ids, m.ID)
	}
	if _, err := s.Queue(ctx, eventID, ids, message); err != nil {
		return DispatchResult{}, err
	}
	return s.Dispatch(ctx, eventID)
}
