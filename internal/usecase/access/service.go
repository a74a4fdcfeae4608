package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/trackworks/coasterec/internal/domain"
)

// Service handles country accessibility edge CRUD operations. Edges are
// directed: A accessible-from B does not imply the reverse.
type Service struct {
	repo Repository
}

// New creates an accessibility service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create assigns an id and stores a new edge.
func (s *Service) Create(ctx context.Context, source, accessible string) (domain.AccessEdge, error) {
	id, err := s.repo.NextID(ctx)
	if err != nil {
		return domain.AccessEdge{}, fmt.Errorf("allocate access id: %w", err)
	}

	e := domain.AccessEdge{ID: id, SourceCountry: source, AccessibleCountry: accessible}
	if err := s.repo.Save(ctx, e); err != nil {
		return domain.AccessEdge{}, fmt.Errorf("save access %d: %w", id, err)
	}
	return e, nil
}

// Get retrieves an edge by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.AccessEdge, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.AccessEdge{}, fmt.Errorf("get access %d: %w", id, err)
	}
	return e, nil
}

// List returns all edges.
func (s *Service) List(ctx context.Context) ([]domain.AccessEdge, error) {
	edges, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list access: %w", err)
	}
	return edges, nil
}

// ListBySource returns the edges leaving one source country. An unknown
// country yields an empty slice.
func (s *Service) ListBySource(ctx context.Context, countryName string) ([]domain.AccessEdge, error) {
	edges, err := s.repo.ListBySource(ctx, countryName)
	if err != nil {
		return nil, fmt.Errorf("list access from %q: %w", countryName, err)
	}
	return edges, nil
}

// Update replaces an existing edge.
func (s *Service) Update(ctx context.Context, e domain.AccessEdge) (domain.AccessEdge, error) {
	old, err := s.repo.Get(ctx, e.ID)
	if err != nil {
		return domain.AccessEdge{}, fmt.Errorf("get access %d: %w", e.ID, err)
	}

	// The source index keys on the source country, so a moved edge must
	// be removed from the old set before the new write.
	if old.SourceCountry != e.SourceCountry {
		if err := s.repo.Delete(ctx, e.ID); err != nil && !errors.Is(err, domain.ErrAccessNotFound) {
			return domain.AccessEdge{}, fmt.Errorf("reindex access %d: %w", e.ID, err)
		}
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return domain.AccessEdge{}, fmt.Errorf("save access %d: %w", e.ID, err)
	}
	return e, nil
}

// Delete removes an edge.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete access %d: %w", id, err)
	}
	return nil
}
