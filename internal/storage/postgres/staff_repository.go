package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/glee/internal/domain/staff"
	"github.com/jackc/pgx/v5"
)

var _ staff.Repository = (*StaffRepository)(nil)

type StaffRepository struct {
	conn
}

const staffColumns = `id, name, phone, is_active, created_at`

func scanMember(row pgx.Row) (staff.Member, error) {
	var m staff.Member
	if err := row.Scan(&m.ID, &m.Name, &m.Phone, &m.IsActive, &m.CreatedAt); err != nil {
		return staff.Member{}, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

func (r *StaffRepository) List(ctx context.Context) ([]staff.Member, error) {
	rows, err := r.queryer().Query(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (staff.Member, error) {
		return scanMember(row)
	})
}

func (r *StaffRepository) Get(ctx context.Context, id int64) (*staff.Member, error) {
	m, err := scanMember(r.queryer().QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staff.ErrNotFound
		}
		return nil, fmt.Errorf("get staff member: %w", err)
	}
	return &m, nil
}

func (r *StaffRepository) Create(ctx context.Context, m *staff.Member) error {
	err := r.queryer().QueryRow(ctx,
		`INSERT INTO staff (name, phone, is_active) VALUES ($1, $2, $3) RETURNING id, created_at`,
		m.Name, m.Phone, m.IsActive,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert staff member: %w", err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return nil
}

func (r *StaffRepository) Update(ctx context.Context, m *staff.Member) error {
	tag, err := r.queryer().Exec(ctx,
		`UPDATE staff SET name = $2, phone = $3, is_active = $4 WHERE id = $1`,
		m.ID, m.Name, m.Phone, m.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update staff member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrNotFound
	}
	return nil
}
