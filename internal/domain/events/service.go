package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/sanitize"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// List returns all events ordered by date, soonest first.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID < items[j].ID
		}
		return items[i].Date.Before(items[j].Date)
	})
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Event, error) {
	event := &Event{
		Title:          sanitize.Text(strings.TrimSpace(params.Title)),
		Description:    sanitize.HTML(strings.TrimSpace(params.Description)),
		Date:           params.Date.UTC(),
		Location:       cleanOptional(params.Location),
		Status:         params.Status,
		PosterURL:      cleanOptional(params.PosterURL),
		SlackMessageTS: cleanOptional(params.SlackMessageTS),
		Budget:         params.Budget,
		MaxAttendees:   positiveOrNil(params.MaxAttendees),
	}
	if event.Status == "" {
		event.Status = StatusPlanning
	}
	if err := validate(event); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info().Int64("event_id", event.ID).Str("title", event.Title).Msg("event created")
	return event, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Event, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		event.Title = sanitize.Text(strings.TrimSpace(*params.Title))
	}
	if params.Description != nil {
		event.Description = sanitize.HTML(strings.TrimSpace(*params.Description))
	}
	if params.Date != nil {
		event.Date = params.Date.UTC()
	}
	if params.Location != nil {
		event.Location = cleanOptional(params.Location)
	}
	if params.Status != nil {
		event.Status = *params.Status
	}
	if params.PosterURL != nil {
		event.PosterURL = cleanOptional(params.PosterURL)
	}
	if params.SlackMessageTS != nil {
		event.SlackMessageTS = cleanOptional(params.SlackMessageTS)
	}
	if params.Budget != nil {
		event.Budget = *params.Budget
	}
	if params.MaxAttendees != nil {
		event.MaxAttendees = positiveOrNil(params.MaxAttendees)
	}

	if err := validate(event); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes the event together with its expenses and notifications.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("event_id", id).Msg("event deleted")
	return nil
}

// ExistsOn reports whether an event with title is already scheduled on the
// calendar day of day.
func (s *Service) ExistsOn(ctx context.Context, title string, day time.Time) (bool, error) {
	ok, err := s.repo.ExistsOn(ctx, title, day)
	if err != nil {
		return false, fmt.Errorf("check event on %s: %w", day.Format(time.DateOnly), err)
	}
	return ok, nil
}

func validate(event *Event) error {
	if err := validation.Required("title", event.Title); err != nil {
		return err
	}
	if event.Date.IsZero() {
		return validation.Error{Field: "date", Message: "is required"}
	}
	if err := validation.OneOf("status", event.Status, Statuses...); err != nil {
		return err
	}
	if err := validation.NonNegative("budget", event.Budget); err != nil {
		return err
	}
	if event.PosterURL != nil {
		if err := validation.URL("posterUrl", *event.PosterURL); err != nil {
			return err
		}
	}
	return nil
}

func cleanOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := sanitize.Text(strings.TrimSpace(*value))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positiveOrNil(value *int) *int {
	if value == nil || *value <= 0 {
		return nil
	}
	v := *value
	return &v
}
