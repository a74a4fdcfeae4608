package user

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// Repository persists users.
type Repository interface {
	Save(ctx context.Context, u domain.User) error
	Get(ctx context.Context, id string) (domain.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}
