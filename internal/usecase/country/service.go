package country

import (
	"context"
	"fmt"

	"github.com/trackworks/coasterec/internal/domain"
)

// Service handles country CRUD operations.
type Service struct {
	repo Repository
}

// New creates a country service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new country. Duplicate names return ErrCountryExists.
func (s *Service) Create(ctx context.Context, name string) (domain.Country, error) {
	c, err := s.repo.Create(ctx, name)
	if err != nil {
		return domain.Country{}, fmt.Errorf("create country %q: %w", name, err)
	}
	return c, nil
}

// Get retrieves a country by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Country, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Country{}, fmt.Errorf("get country %d: %w", id, err)
	}
	return c, nil
}

// GetByName retrieves a country by its unique name.
func (s *Service) GetByName(ctx context.Context, name string) (domain.Country, error) {
	c, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return domain.Country{}, fmt.Errorf("get country %q: %w", name, err)
	}
	return c, nil
}

// List returns all countries.
func (s *Service) List(ctx context.Context) ([]domain.Country, error) {
	countries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

// Delete removes a country.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete country %d: %w", id, err)
	}
	return nil
}
