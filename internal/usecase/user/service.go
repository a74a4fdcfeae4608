package user

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/trackworks/coasterec/internal/domain"
	"github.com/trackworks/coasterec/internal/logger"
)

// Service handles user CRUD operations.
type Service struct {
	repo Repository
}

// New creates a user service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a user. An existing id is overwritten, which callers
// use to register and update through the same endpoint.
func (s *Service) Create(ctx context.Context, u domain.User) (domain.User, error) {
	exists, err := s.repo.Exists(ctx, u.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("check user %q: %w", u.ID, err)
	}
	if exists {
		logger.FromContext(ctx).Info("user already exists, overwriting",
			zap.String("user_id", u.ID))
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("save user %q: %w", u.ID, err)
	}
	return u, nil
}

// Get retrieves a user by id.
func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %q: %w", id, err)
	}
	return u, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update replaces an existing user. Missing ids are an error here,
// unlike Create.
func (s *Service) Update(ctx context.Context, u domain.User) (domain.User, error) {
	exists, err := s.repo.Exists(ctx, u.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("check user %q: %w", u.ID, err)
	}
	if !exists {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("save user %q: %w", u.ID, err)
	}
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user %q: %w", id, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %q: %w", id, err)
	}
	return nil
}
