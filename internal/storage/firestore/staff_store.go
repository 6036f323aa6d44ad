package firestore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Togather-Foundation/glee/internal/domain/staff"
)

type memberDoc struct {
	ID        int64     `firestore:"id"`
	Name      string    `firestore:"name"`
	Phone     string    `firestore:"phone"`
	IsActive  bool      `firestore:"isActive"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (d memberDoc) member() staff.Member {
	return staff.Member{ID: d.ID, Name: d.Name, Phone: d.Phone, IsActive: d.IsActive, CreatedAt: d.CreatedAt.UTC()}
}

type staffStore struct{ *Store }

func (s *staffStore) List(ctx context.Context) ([]staff.Member, error) {
	items, err := collect(ctx, s.col(colStaff).Query, memberDoc.member)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	slices.SortFunc(items, func(a, b staff.Member) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *staffStore) Get(ctx context.Context, id int64) (*staff.Member, error) {
	var d memberDoc
	if err := s.get(ctx, colStaff, id, &d, staff.ErrNotFound); err != nil {
		return nil, err
	}
	m := d.member()
	return &m, nil
}

func (s *staffStore) Create(ctx context.Context, m *staff.Member) error {
	m.CreatedAt = time.Now().UTC()
	id, err := s.create(ctx, colStaff, func(id int64) any {
		return memberDoc{ID: id, Name: m.Name, Phone: m.Phone, IsActive: m.IsActive, CreatedAt: m.CreatedAt}
	})
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (s *staffStore) Update(ctx context.Context, m *staff.Member) error {
	var current memberDoc
	if err := s.get(ctx, colStaff, m.ID, &current, staff.ErrNotFound); err != nil {
		return err
	}
	current.Name = m.Name
	current.Phone = m.Phone
	current.IsActive = m.IsActive
	return s.replace(ctx, colStaff, m.ID, current, staff.ErrNotFound)
}

func (s *staffStore) Delete(ctx context.Context, id int64) error {
	return s.remove(ctx, colStaff, id, staff.ErrNotFound)
}
