package recommend

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// UserReader resolves users by id.
type UserReader interface {
	Get(ctx context.Context, id string) (domain.User, error)
}

// RatingReader reads a user's existing coaster ratings.
type RatingReader interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Rating, error)
}

// AccessReader answers which countries are directly accessible from a
// source country. Unknown countries yield an empty slice, not an error.
type AccessReader interface {
	ListBySource(ctx context.Context, countryName string) ([]domain.AccessEdge, error)
}

// Engine invokes the external scoring engine.
type Engine interface {
	Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error)
}
