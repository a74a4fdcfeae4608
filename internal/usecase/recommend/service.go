package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trackworks/coasterec/internal/domain"
	"github.com/trackworks/coasterec/internal/logger"
)

// Service orchestrates personalized coaster recommendations: it loads the
// user's rating history, expands the accessible-country set, and calls the
// external scoring engine.
type Service struct {
	users       UserReader
	ratings     RatingReader
	access      AccessReader
	engine      Engine
	defaultTopK int
}

// New creates a recommendation service.
func New(users UserReader, ratings RatingReader, access AccessReader, engine Engine, defaultTopK int) *Service {
	if defaultTopK <= 0 {
		defaultTopK = 20
	}
	return &Service{
		users:       users,
		ratings:     ratings,
		access:      access,
		engine:      engine,
		defaultTopK: defaultTopK,
	}
}

// Recommendations runs one orchestration: lookup, rating check, build,
// call, return. topK <= 0 means unset and falls back to the configured
// default.
//
// A user with no ratings yields a successful empty result and no engine
// call; there is no signal to score on. That is distinct from
// ErrUserNotFound, which is an error.
func (s *Service) Recommendations(ctx context.Context, userID string, topK int) ([]domain.Recommendation, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", userID, err)
	}

	ratings, err := s.ratings.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for %q: %w", userID, err)
	}
	if len(ratings) == 0 {
		logger.FromContext(ctx).Debug("no ratings, skipping engine call",
			zap.String("user_id", userID))
		return []domain.Recommendation{}, nil
	}

	edges, err := s.access.ListBySource(ctx, user.Country)
	if err != nil {
		return nil, fmt.Errorf("list accessible countries from %q: %w", user.Country, err)
	}

	if topK <= 0 {
		topK = s.defaultTopK
	}
	req := buildRequest(user, edges, ratings, topK)

	recs, err := s.engine.Recommend(ctx, req)
	if err != nil {
		// Engine faults carry their own context; propagate unchanged.
		return nil, err
	}

	logger.FromContext(ctx).Debug("recommendations returned",
		zap.String("user_id", userID),
		zap.Int("count", len(recs)),
	)
	return recs, nil
}
