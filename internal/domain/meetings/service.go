package meetings

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Togather-Foundation/glee/internal/sanitize"
	"github.com/Togather-Foundation/glee/internal/validation"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "meetings").Logger()}
}

// List returns meetings newest first.
func (s *Service) List(ctx context.Context) ([]Meeting, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID > items[j].ID
		}
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Meeting, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Meeting, error) {
	meeting := &Meeting{
		Title:         sanitize.Text(strings.TrimSpace(params.Title)),
		Date:          params.Date.UTC(),
		ChairpersonID: positiveID(params.ChairpersonID),
		SecretaryID:   positiveID(params.SecretaryID),
		LoopLink:      trimmed(params.LoopLink),
		Minutes:       minutes(params.Minutes),
		Status:        params.Status,
	}
	if meeting.Status == "" {
		meeting.Status = StatusScheduled
	}
	if err := validate(meeting); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	s.logger.Info().Int64("meeting_id", meeting.ID).Msg("meeting created")
	return meeting, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Meeting, error) {
	meeting, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Title != nil {
		meeting.Title = sanitize.Text(strings.TrimSpace(*params.Title))
	}
	if params.Date != nil {
		meeting.Date = params.Date.UTC()
	}
	if params.ChairpersonID != nil {
		meeting.ChairpersonID = positiveID(params.ChairpersonID)
	}
	if params.SecretaryID != nil {
		meeting.SecretaryID = positiveID(params.SecretaryID)
	}
	if params.LoopLink != nil {
		meeting.LoopLink = trimmed(params.LoopLink)
	}
	if params.Minutes != nil {
		meeting.Minutes = minutes(params.Minutes)
	}
	if params.Status != nil {
		meeting.Status = *params.Status
	}
	if err := validate(meeting); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return meeting, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(m *Meeting) error {
	if err := validation.Required("title", m.Title); err != nil {
		return err
	}
	if m.Date.IsZero() {
		return validation.Error{Field: "date", Message: "is required"}
	}
	if err := validation.OneOf("status", m.Status, Statuses...); err != nil {
		return err
	}
	if m.LoopLink != nil {
		if err := validation.URL("loopLink", *m.LoopLink); err != nil {
			return err
		}
	}
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func minutes(value *string) *string {
	v := trimmed(value)
	if v == nil {
		return nil
	}
	clean := sanitize.HTML(*v)
	return &clean
}

func positiveID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}
