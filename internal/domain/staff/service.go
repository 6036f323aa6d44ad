package staff

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
	return &Service{repo: repo, logger: logger.With().Str("component", "staff").Logger()}
}

// List returns every staff member ordered by name.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
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

func (s *Service) ListActive(ctx context.Context) ([]Member, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	active := items[:0]
	for _, m := range items {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Member, error) {
	member := &Member{
		Name:     sanitize.Text(strings.TrimSpace(params.Name)),
		Phone:    validation.NormalizePhone(params.Phone),
		IsActive: true,
	}
	if params.IsActive != nil {
		member.IsActive = *params.IsActive
	}
	if err := validate(member); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create staff member: %w", err)
	}
	s.logger.Info().Int64("staff_id", member.ID).Msg("staff member created")
	return member, nil
}

func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Member, error) {
	member, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if params.Name != nil {
		member.Name = sanitize.Text(strings.TrimSpace(*params.Name))
	}
	if params.Phone != nil {
		member.Phone = validation.NormalizePhone(*params.Phone)
	}
	if params.IsActive != nil {
		member.IsActive = *params.IsActive
	}
	if err := validate(member); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("update staff member: %w", err)
	}
	return member, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(m *Member) error {
	if err := validation.Required("name", m.Name); err != nil {
		return err
	}
	return validation.Phone("phone", m.Phone)
}
