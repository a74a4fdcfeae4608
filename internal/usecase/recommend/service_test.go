package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/trackworks/coasterec/internal/domain"
)

func TestRecommendations_NoRatingsSkipsEngine(t *testing.T) {
	users := &mockUsers{user: domain.User{ID: "p2", Country: "United States"}}
	ratings := &mockRatings{}
	access := &mockAccess{}
	engine := &mockEngine{}
	svc := New(users, ratings, access, engine, 20)

	recs, err := svc.Recommendations(context.Background(), "p2", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty result, got %d items", len(recs))
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, expected 0", engine.calls)
	}
	if access.called {
		t.Error("accessibility expansion must not run for a user without ratings")
	}
}

func TestRecommendations_UserNotFound(t *testing.T) {
	users := &mockUsers{err: domain.ErrUserNotFound}
	ratings := &mockRatings{}
	engine := &mockEngine{}
	svc := New(users, ratings, &mockAccess{}, engine, 20)

	_, err := svc.Recommendations(context.Background(), "ghost", 0)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if ratings.called {
		t.Error("rating lookup must not run after a failed user lookup")
	}
	if engine.calls != 0 {
		t.Errorf("engine called %d times, expected 0", engine.calls)
	}
}

func TestRecommendations_HomeCountryFirst(t *testing.T) {
	users := &mockUsers{user: domain.User{ID: "p1", Country: "United States"}}
	ratings := &mockRatings{ratings: []domain.Rating{
		{ID: 1, UserID: "p1", CoasterID: 42, Value: 4.5},
	}}
	access := &mockAccess{edges: []domain.AccessEdge{
		{ID: 1, SourceCountry: "United States", AccessibleCountry: "Canada"},
	}}
	engine := &mockEngine{}
	svc := New(users, ratings, access, engine, 20)

	if _, err := svc.Recommendations(context.Background(), "p1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if engine.calls != 1 {
		t.Fatalf("engine called %d times, expected 1", engine.calls)
	}
	req := engine.lastReq
	if len(req.Countries) != 2 || req.Countries[0] != "United States" || req.Countries[1] != "Canada" {
		t.Errorf("countries = %v, expected home country first", req.Countries)
	}
	if len(req.Ratings) != 1 || req.Ratings[0].CoasterID != 42 || req.Ratings[0].Rating != 4.5 {
		t.Errorf("ratings = %+v", req.Ratings)
	}
	if req.TopK != 20 {
		t.Errorf("top_k = %d, expected configured default 20", req.TopK)
	}
}

func TestRecommendations_CallerTopKPassesThrough(t *testing.T) {
	users := &mockUsers{user: domain.User{ID: "p1", Country: "Germany"}}
	ratings := &mockRatings{ratings: []domain.Rating{{CoasterID: 1, Value: 3}}}
	engine := &mockEngine{}
	svc := New(users, ratings, &mockAccess{}, engine, 20)

	if _, err := svc.Recommendations(context.Background(), "p1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if engine.lastReq.TopK != 5 {
		t.Errorf("top_k = %d, expected caller-supplied 5", engine.lastReq.TopK)
	}
}

func TestRecommendations_ResultsPassThroughInOrder(t *testing.T) {
	users := &mockUsers{user: domain.User{ID: "p1", Country: "Japan"}}
	ratings := &mockRatings{ratings: []domain.Rating{{CoasterID: 9, Value: 5}}}
	engine := &mockEngine{recs: []domain.Recommendation{
		{CoasterID: 7, Attrs: map[string]any{"score": 0.9, "reason": "similar riders"}},
		{CoasterID: 3, Attrs: map[string]any{"score": 0.8}},
	}}
	svc := New(users, ratings, &mockAccess{}, engine, 20)

	recs, err := svc.Recommendations(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recs))
	}
	if recs[0].CoasterID != 7 || recs[1].CoasterID != 3 {
		t.Errorf("engine ranking order not preserved: %+v", recs)
	}
	if recs[0].Attrs["reason"] != "similar riders" {
		t.Errorf("attribute bag not preserved: %+v", recs[0].Attrs)
	}
}

func TestRecommendations_EngineFaultPropagatesUnchanged(t *testing.T) {
	engineErr := &domain.RecommenderUnavailableError{
		Endpoint: "http://engine:8000/recommend",
		Err:      errors.New("connection refused"),
	}
	users := &mockUsers{user: domain.User{ID: "p1", Country: "France"}}
	ratings := &mockRatings{ratings: []domain.Rating{{CoasterID: 1, Value: 2.5}}}
	engine := &mockEngine{err: engineErr}
	svc := New(users, ratings, &mockAccess{}, engine, 20)

	_, err := svc.Recommendations(context.Background(), "p1", 0)
	if !errors.Is(err, domain.ErrRecommenderUnavailable) {
		t.Fatalf("expected ErrRecommenderUnavailable, got %v", err)
	}
	var unavailable *domain.RecommenderUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatal("endpoint context lost in propagation")
	}
	if unavailable.Endpoint != "http://engine:8000/recommend" {
		t.Errorf("endpoint = %q", unavailable.Endpoint)
	}
	if engine.calls != 1 {
		t.Errorf("engine called %d times, expected exactly 1 (no retry)", engine.calls)
	}
}

func TestRecommendations_StoreFaultPropagates(t *testing.T) {
	storeErr := errors.New("smembers: i/o timeout")
	users := &mockUsers{user: domain.User{ID: "p1", Country: "Spain"}}
	ratings := &mockRatings{ratings: []domain.Rating{{CoasterID: 2, Value: 4}}}
	access := &mockAccess{err: storeErr}
	engine := &mockEngine{}
	svc := New(users, ratings, access, engine, 20)

	_, err := svc.Recommendations(context.Background(), "p1", 0)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store fault to propagate, got %v", err)
	}
	if engine.calls != 0 {
		t.Error("engine must not be called after a failed country expansion")
	}
}
