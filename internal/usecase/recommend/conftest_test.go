package recommend

import (
	"context"

	"github.com/trackworks/coasterec/internal/domain"
)

// --- Mocks ---

type mockUsers struct {
	user domain.User
	err  error
}

func (m *mockUsers) Get(_ context.Context, _ string) (domain.User, error) {
	return m.user, m.err
}

type mockRatings struct {
	ratings []domain.Rating
	err     error
	called  bool
}

func (m *mockRatings) ListForUser(_ context.Context, _ string) ([]domain.Rating, error) {
	m.called = true
	return m.ratings, m.err
}

type mockAccess struct {
	edges  []domain.AccessEdge
	err    error
	called bool
}

func (m *mockAccess) ListBySource(_ context.Context, _ string) ([]domain.AccessEdge, error) {
	m.called = true
	return m.edges, m.err
}

type mockEngine struct {
	recs    []domain.Recommendation
	err     error
	calls   int
	lastReq domain.RecommendRequest
}

func (m *mockEngine) Recommend(_ context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error) {
	m.calls++
	m.lastReq = req
	return m.recs, m.err
}
