package coaster

import (
	"context"
	"fmt"

	"github.com/trackworks/coasterec/internal/domain"
)

// Service handles coaster CRUD operations.
type Service struct {
	repo Repository
}

// New creates a coaster service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create assigns an id and stores a new coaster.
func (s *Service) Create(ctx context.Context, c domain.Coaster) (domain.Coaster, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domain.Coaster{}, fmt.Errorf("allocate coaster id: %w", err)
	}
	c.ID = id

	if err := s.repo.Save(ctx, c); err != nil {
		return domain.Coaster{}, fmt.Errorf("save coaster %d: %w", id, err)
	}
	return c, nil
}

// Get retrieves a coaster by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Coaster, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Coaster{}, fmt.Errorf("get coaster %d: %w", id, err)
	}
	return c, nil
}

// List returns all coasters.
func (s *Service) List(ctx context.Context) ([]domain.Coaster, error) {
	coasters, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coasters: %w", err)
	}
	return coasters, nil
}

// Update replaces an existing coaster.
func (s *Service) Update(ctx context.Context, c domain.Coaster) (domain.Coaster, error) {
	exists, err := s.repo.Exists(ctx, c.ID)
	if err != nil {
		return domain.Coaster{}, fmt.Errorf("check coaster %d: %w", c.ID, err)
	}
	if !exists {
		return domain.Coaster{}, domain.ErrCoasterNotFound
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return domain.Coaster{}, fmt.Errorf("save coaster %d: %w", c.ID, err)
	}
	return c, nil
}

// Delete removes a coaster.
func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check coaster %d: %w", id, err)
	}
	if !exists {
		return domain.ErrCoasterNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete coaster %d: %w", id, err)
	}
	return nil
}
