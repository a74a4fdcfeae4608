package rating

import (
	"context"
	"fmt"

	"github.com/trackworks/coasterec/internal/domain"
)

// Service handles rating CRUD operations.
type Service struct {
	repo     Repository
	users    UserChecker
	coasters CoasterChecker
}

// New creates a rating service.
func New(repo Repository, users UserChecker, coasters CoasterChecker) *Service {
	return &Service{repo: repo, users: users, coasters: coasters}
}

// Create validates and stores a new rating. The referenced user and
// coaster must exist.
func (s *Service) Create(ctx context.Context, rt domain.Rating) (domain.Rating, error) {
	if err := rt.Validate(); err != nil {
		return domain.Rating{}, err
	}

	if err := s.checkRefs(ctx, rt); err != nil {
		return domain.Rating{}, err
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("allocate rating id: %w", err)
	}
	rt.ID = id

	if err := s.repo.Save(ctx, rt); err != nil {
		return domain.Rating{}, fmt.Errorf("save rating %d: %w", id, err)
	}
	return rt, nil
}

// Get retrieves a rating by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Rating, error) {
	rt, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("get rating %d: %w", id, err)
	}
	return rt, nil
}

// List returns all ratings.
func (s *Service) List(ctx context.Context) ([]domain.Rating, error) {
	ratings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// ListForUser returns one user's ratings in insertion order.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	ratings, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings for %q: %w", userID, err)
	}
	return ratings, nil
}

// Update replaces an existing rating after revalidation. A reassigned
// user or coaster gets the same existence check as Create.
func (s *Service) Update(ctx context.Context, rt domain.Rating) (domain.Rating, error) {
	if err := rt.Validate(); err != nil {
		return domain.Rating{}, err
	}

	if err := s.checkRefs(ctx, rt); err != nil {
		return domain.Rating{}, err
	}

	old, err := s.repo.Get(ctx, rt.ID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("get rating %d: %w", rt.ID, err)
	}

	// The per-user index keys on the user, so a reassigned rating must
	// leave the old user's set first.
	if old.UserID != rt.UserID {
		if err := s.repo.Delete(ctx, rt.ID); err != nil {
			return domain.Rating{}, fmt.Errorf("reindex rating %d: %w", rt.ID, err)
		}
	}

	if err := s.repo.Save(ctx, rt); err != nil {
		return domain.Rating{}, fmt.Errorf("save rating %d: %w", rt.ID, err)
	}
	return rt, nil
}

// Delete removes a rating.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rating %d: %w", id, err)
	}
	return nil
}

func (s *Service) checkRefs(ctx context.Context, rt domain.Rating) error {
	ok, err := s.users.Exists(ctx, rt.UserID)
	if err != nil {
		return fmt.Errorf("check user %q: %w", rt.UserID, err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}

	ok, err = s.coasters.Exists(ctx, rt.CoasterID)
	if err != nil {
		return fmt.Errorf("check coaster %d: %w", rt.CoasterID, err)
	}
	if !ok {
		return domain.ErrCoasterNotFound
	}
	return nil
}
