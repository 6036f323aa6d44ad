package templates

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/events"
	"github.com/Togather-Foundation/glee/internal/sanitize"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
)

// EventCreator creates events from templates.
type EventCreator interface {
	Create(ctx context.Context, params events.CreateParams) (*events.Event, error)
}

// EventChecker reports whether an event is already scheduled on a day.
type EventChecker interface {
	ExistsOn(ctx context.Context, title string, day time.Time) (bool, error)
}

type Service struct {
	repo        Repository
	events      EventCreator
	defaultHour int
	location    *time.Location
	now         func() time.Time
	logger      zerolog.Logger
}

// NewService builds the template service. Occurrences are scheduled at
// defaultHour:00 local time.
func NewService(repo Repository, creator EventCreator, defaultHour int, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		events:      creator,
		defaultHour: defaultHour,
		location:    time.Local,
		now:         time.Now,
		logger:      logger.With().Str("component", "templates").Logger(),
	}
}

func (s *Service) List(ctx context.Context) ([]Template, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a == b {
			return items[i].ID < items[j].ID
		}
		return a < b
	})
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Template, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Template, error) {
	tmpl := &Template{
		Name:                sanitize.Text(strings.TrimSpace(params.Name)),
		Title:               sanitize.Text(strings.TrimSpace(params.Title)),
		Description:         sanitize.HTML(strings.TrimSpace(params.Description)),
		Location:            optionalText(params.Location),
		Budget:              params.Budget,
		MaxAttendees:        positive(params.MaxAttendees),
		IsRecurring:         params.IsRecurring,
		RecurringType:       params.RecurringType,
		RecurringDayOfWeek:  params.RecurringDayOfWeek,
		RecurringDayOfMonth: params.RecurringDayOfMonth,
	}
	if err := validate(tmpl); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	s.logger.Info().Int64("template_id", tmpl.ID).Str("name", tmpl.Name).Msg("template created")
	return tmpl, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Template, error) {
	tmpl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		tmpl.Name = sanitize.Text(strings.TrimSpace(*params.Name))
	}
	if params.Title != nil {
		tmpl.Title = sanitize.Text(strings.TrimSpace(*params.Title))
	}
	if params.Description != nil {
		tmpl.Description = sanitize.HTML(strings.TrimSpace(*params.Description))
	}
	if params.Location != nil {
		tmpl.Location = optionalText(params.Location)
	}
	if params.Budget != nil {
		tmpl.Budget = *params.Budget
	}
	if params.MaxAttendees != nil {
		tmpl.MaxAttendees = positive(params.MaxAttendees)
	}
	if params.IsRecurring != nil {
		tmpl.IsRecurring = *params.IsRecurring
	}
	if params.RecurringType != nil {
		tmpl.RecurringType = params.RecurringType
	}
	if params.RecurringDayOfWeek != nil {
		tmpl.RecurringDayOfWeek = params.RecurringDayOfWeek
	}
	if params.RecurringDayOfMonth != nil {
		tmpl.RecurringDayOfMonth = params.RecurringDayOfMonth
	}
	if err := validate(tmpl); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return tmpl, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Instantiate creates a planning event from the template. A nil date means the
// template's next occurrence, which requires a recurring template.
func (s *Service) Instantiate(ctx context.Context, id int64, date *time.Time) (*events.Event, error) {
	tmpl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var when time.Time
	if date != nil && !date.IsZero() {
		when = *date
	} else {
		if !tmpl.IsRecurring {
			return nil, validation.Error{Field: "date", Message: "is required for a non-recurring template"}
		}
		when, err = tmpl.NextOccurrence(s.now().In(s.location), s.defaultHour)
		if err != nil {
			return nil, validation.Error{Field: "date", Message: err.Error()}
		}
	}

	event, err := s.events.Create(ctx, events.CreateParams{
		Title:        tmpl.Title,
		Description:  tmpl.Description,
		Date:         when,
		Location:     tmpl.Location,
		Status:       events.StatusPlanning,
		Budget:       tmpl.Budget,
		MaxAttendees: tmpl.MaxAttendees,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("template_id", tmpl.ID).
		Int64("event_id", event.ID).
		Time("date", event.Date).
		Msg("event created from template")
	return event, nil
}

// ScheduleUpcoming creates the next occurrence of every recurring template
// that falls within horizon of now, skipping days where an event with the
// same title already exists. It returns the events it created.
func (s *Service) ScheduleUpcoming(ctx context.Context, horizon time.Duration, checker EventChecker) ([]events.Event, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	now := s.now().In(s.location)
	var created []events.Event
	for _, tmpl := range items {
		if !tmpl.IsRecurring {
			continue
		}
		next, err := tmpl.NextOccurrence(now, s.defaultHour)
		if err != nil {
			s.logger.Warn().Err(err).Int64("template_id", tmpl.ID).Msg("skipping template with incomplete recurrence")
			continue
		}
		if next.Sub(now) > horizon {
			continue
		}
		exists, err := checker.ExistsOn(ctx, tmpl.Title, next)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		event, err := s.Instantiate(ctx, tmpl.ID, &next)
		if err != nil {
			return created, fmt.Errorf("instantiate template %d: %w", tmpl.ID, err)
		}
		created = append(created, *event)
	}
	return created, nil
}

func validate(t *Template) error {
	if err := validation.Required("name", t.Name); err != nil {
		return err
	}
	if err := validation.Required("title", t.Title); err != nil {
		return err
	}
	if err := validation.NonNegative("budget", t.Budget); err != nil {
		return err
	}
	if t.RecurringDayOfWeek != nil && (*t.RecurringDayOfWeek < 0 || *t.RecurringDayOfWeek > 6) {
		return validation.Error{Field: "recurringDayOfWeek", Message: "must be between 0 (Sunday) and 6"}
	}
	if t.RecurringDayOfMonth != nil && (*t.RecurringDayOfMonth < 1 || *t.RecurringDayOfMonth > 31) {
		return validation.Error{Field: "recurringDayOfMonth", Message: "must be between 1 and 31"}
	}
	if !t.IsRecurring {
		return nil
	}
	if t.RecurringType == nil {
		return validation.Error{Field: "recurringType", Message: "is required for a recurring template"}
	}
	if err := validation.OneOf("recurringType", *t.RecurringType, RecurrenceTypes...); err != nil {
		return err
	}
	switch *t.RecurringType {
	case RecurrenceWeekly, RecurrenceBiweekly:
		if t.RecurringDayOfWeek == nil {
			return validation.Error{Field: "recurringDayOfWeek", Message: "is required for weekly and biweekly templates"}
		}
	case RecurrenceMonthly:
		if t.RecurringDayOfMonth == nil {
			return validation.Error{Field: "recurringDayOfMonth", Message: "is required for monthly templates"}
		}
	}
	return nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	v := sanitize.Text(strings.TrimSpace(*value))
	if v == "" {
		return nil
	}
	return &v
}

func positive(value *int) *int {
	if value == nil || *value <= 0 {
		return nil
	}
	v := *value
	return &v
}
