package country

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// Repository persists countries with a unique-name guarantee.
type Repository interface {
	Create(ctx context.Context, name string) (domain.Country, error)
	Get(ctx context.Context, id int64) (domain.Country, error)
	GetByName(ctx context.Context, name string) (domain.Country, error)
	List(ctx context.Context) ([]domain.Country, error)
	Delete(ctx context.Context, id int64) error
}
