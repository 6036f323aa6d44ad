package sqlite

import (
	"context"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/staff"
)

type staffStore struct{ *Store }

const staffColumns = `id, name, phone, is_active, created_at`

func scanMember(row scanner) (staff.Member, error) {
	var m staff.Member
	var createdAt int64
	if err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.IsActive, &createdAt); err != nil {
		return staff.Member{}, err
	}
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

func (s *staffStore) List(ctx context.Context) ([]staff.Member, error) {
	rows, err := s.conn().QueryContext(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return collect(rows, scanMember)
}

func (s *staffStore) Get(ctx context.Context, id int64) (*staff.Member, error) {
	m, err := scanMember(s.conn().QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, staff.ErrNotFound
		}
		return nil, fmt.Errorf("get staff member: %w", err)
	}
	return &m, nil
}

func (s *staffStore) Create(ctx context.Context, m *staff.Member) error {
	createdAt := now()
	id, err := insert(ctx, s.conn(), "insert staff member",
		`INSERT INTO staff (name, phone, is_active, created_at) VALUES (?, ?, ?, ?)`,
		m.Name, m.Phone, m.IsActive, toMillis(createdAt),
	)
	if err != nil {
		return err
	}
	m.ID = id
	m.CreatedAt = createdAt
	return nil
}

func (s *staffStore) Update(ctx context.Context, m *staff.Member) error {
	return execOne(ctx, s.conn(), "update staff member", staff.ErrNotFound,
		`UPDATE staff SET name = ?, phone = ?, is_active = ? WHERE id = ?`,
		m.Name, m.Phone, m.IsActive, m.ID,
	)
}

func (s *staffStore) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, s.conn(), "delete staff member", staff.ErrNotFound, `DELETE FROM staff WHERE id = ?`, id)
}
