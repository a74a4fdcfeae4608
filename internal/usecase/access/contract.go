package access

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// Repository persists country accessibility edges.
type Repository interface {
	NextID(ctx context.Context) (int64, error)
	Save(ctx context.Context, e domain.AccessEdge) error
	Get(ctx context.Context, id int64) (domain.AccessEdge, error)
	List(ctx context.Context) ([]domain.AccessEdge, error)
	ListBySource(ctx context.Context, countryName string) ([]domain.AccessEdge, error)
	Delete(ctx context.Context, id int64) error
}
