package staff

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("staff member not found")

// Member is a committee staff member reachable by SMS.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateParams struct {
	Name     string
	Phone    string
	IsActive *bool
}

type UpdateParams struct {
	Name     *string
	Phone    *string
	IsActive *bool
}

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	Get(ctx context.Context, id int64) (*Member, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id int64) error
}
