package rating

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// Repository persists coaster ratings.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, rt domain.Rating) error
	Get(ctx context.Context, id int64) (domain.Rating, error)
	List(ctx context.Context) ([]domain.Rating, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Rating, error)
	Delete(ctx context.Context, id int64) error
}

// UserChecker answers whether a user exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CoasterChecker answers whether a coaster exists.
type CoasterChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
