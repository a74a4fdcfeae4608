package coaster

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// Repository persists coasters.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, c domain.Coaster) error
	Get(ctx context.Context, id int64) (domain.Coaster, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]domain.Coaster, error)
	Delete(ctx context.Context, id int64) error
}
