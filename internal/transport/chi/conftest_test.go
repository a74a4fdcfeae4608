package chi

import (
	"context"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/trackworks/coasterec/internal/domain"
	accessuc "github.com/trackworks/coasterec/internal/usecase/access"
	coasteruc "github.com/trackworks/coasterec/internal/usecase/coaster"
	countryuc "github.com/trackworks/coasterec/internal/usecase/country"
	healthuc "github.com/trackworks/coasterec/internal/usecase/health"
	ratinguc "github.com/trackworks/coasterec/internal/usecase/rating"
	recommenduc "github.com/trackworks/coasterec/internal/usecase/recommend"
	useruc "github.com/trackworks/coasterec/internal/usecase/user"
)

// In-memory repository fakes backing the handler tests.

type userRepoStub struct {
	users map[string]domain.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: make(map[string]domain.User)}
}

func (s *userRepoStub) Save(_ context.Context, u domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *userRepoStub) Get(_ context.Context, id string) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *userRepoStub) Exists(_ context.Context, id string) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

func (s *userRepoStub) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *userRepoStub) Delete(_ context.Context, id string) error {
	delete(s.users, id)
	return nil
}

type coasterRepoStub struct {
	coasters map[int64]domain.Coaster
	seq      int64
}

func newCoasterRepoStub() *coasterRepoStub {
	return &coasterRepoStub{coasters: make(map[int64]domain.Coaster)}
}

func (s *coasterRepoStub) NextID(_ context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *coasterRepoStub) Save(_ context.Context, c domain.Coaster) error {
	s.coasters[c.ID] = c
	return nil
}

func (s *coasterRepoStub) Get(_ context.Context, id int64) (domain.Coaster, error) {
	c, ok := s.coasters[id]
	if !ok {
		return domain.Coaster{}, domain.ErrCoasterNotFound
	}
	return c, nil
}

func (s *coasterRepoStub) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.coasters[id]
	return ok, nil
}

func (s *coasterRepoStub) List(_ context.Context) ([]domain.Coaster, error) {
	out := make([]domain.Coaster, 0, len(s.coasters))
	for _, c := range s.coasters {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *coasterRepoStub) Delete(_ context.Context, id int64) error {
	delete(s.coasters, id)
	return nil
}

type countryRepoStub struct {
	countries map[int64]domain.Country
	seq       int64
}

func newCountryRepoStub() *countryRepoStub {
	return &countryRepoStub{countries: make(map[int64]domain.Country)}
}

func (s *countryRepoStub) Create(_ context.Context, name string) (domain.Country, error) {
	for _, c := range s.countries {
		if c.Name == name {
			return domain.Country{}, domain.ErrCountryExists
		}
	}
	s.seq++
	c := domain.Country{ID: s.seq, Name: name}
	s.countries[c.ID] = c
	return c, nil
}

func (s *countryRepoStub) Get(_ context.Context, id int64) (domain.Country, error) {
	c, ok := s.countries[id]
	if !ok {
		return domain.Country{}, domain.ErrCountryNotFound
	}
	return c, nil
}

func (s *countryRepoStub) GetByName(_ context.Context, name string) (domain.Country, error) {
	for _, c := range s.countries {
		if c.Name == name {
			return c, nil
		}
	}
	return domain.Country{}, domain.ErrCountryNotFound
}

func (s *countryRepoStub) List(_ context.Context) ([]domain.Country, error) {
	out := make([]domain.Country, 0, len(s.countries))
	for _, c := range s.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *countryRepoStub) Delete(_ context.Context, id int64) error {
	if _, ok := s.countries[id]; !ok {
		return domain.ErrCountryNotFound
	}
	delete(s.countries, id)
	return nil
}

type accessRepoStub struct {
	edges map[int64]domain.AccessEdge
	seq   int64
}

func newAccessRepoStub() *accessRepoStub {
	return &accessRepoStub{edges: make(map[int64]domain.AccessEdge)}
}

func (s *accessRepoStub) NextID(_ context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *accessRepoStub) Save(_ context.Context, e domain.AccessEdge) error {
	s.edges[e.ID] = e
	return nil
}

func (s *accessRepoStub) Get(_ context.Context, id int64) (domain.AccessEdge, error) {
	e, ok := s.edges[id]
	if !ok {
		return domain.AccessEdge{}, domain.ErrAccessNotFound
	}
	return e, nil
}

func (s *accessRepoStub) List(_ context.Context) ([]domain.AccessEdge, error) {
	out := make([]domain.AccessEdge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *accessRepoStub) ListBySource(_ context.Context, countryName string) ([]domain.AccessEdge, error) {
	var out []domain.AccessEdge
	for _, e := range s.edges {
		if e.SourceCountry == countryName {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *accessRepoStub) Delete(_ context.Context, id int64) error {
	if _, ok := s.edges[id]; !ok {
		return domain.ErrAccessNotFound
	}
	delete(s.edges, id)
	return nil
}

type ratingRepoStub struct {
	ratings map[int64]domain.Rating
	seq     int64
}

func newRatingRepoStub() *ratingRepoStub {
	return &ratingRepoStub{ratings: make(map[int64]domain.Rating)}
}

func (s *ratingRepoStub) NextID(_ context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *ratingRepoStub) Save(_ context.Context, rt domain.Rating) error {
	s.ratings[rt.ID] = rt
	return nil
}

func (s *ratingRepoStub) Get(_ context.Context, id int64) (domain.Rating, error) {
	rt, ok := s.ratings[id]
	if !ok {
		return domain.Rating{}, domain.ErrRatingNotFound
	}
	return rt, nil
}

func (s *ratingRepoStub) List(_ context.Context) ([]domain.Rating, error) {
	out := make([]domain.Rating, 0, len(s.ratings))
	for _, rt := range s.ratings {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ratingRepoStub) ListForUser(_ context.Context, userID string) ([]domain.Rating, error) {
	var out []domain.Rating
	for _, rt := range s.ratings {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ratingRepoStub) Delete(_ context.Context, id int64) error {
	if _, ok := s.ratings[id]; !ok {
		return domain.ErrRatingNotFound
	}
	delete(s.ratings, id)
	return nil
}

type engineStub struct {
	recs    []domain.Recommendation
	err     error
	calls   int
	lastReq domain.RecommendRequest
}

func (s *engineStub) Recommend(_ context.Context, req domain.RecommendRequest) ([]domain.Recommendation, error) {
	s.calls++
	s.lastReq = req
	return s.recs, s.err
}

type pingerStub struct {
	err error
}

func (s *pingerStub) Ping(_ context.Context) error { return s.err }

// testEnv bundles the server, its router and the fakes behind it.
type testEnv struct {
	handler  http.Handler
	users    *userRepoStub
	coasters *coasterRepoStub
	ratings  *ratingRepoStub
	access   *accessRepoStub
	engine   *engineStub
	pinger   *pingerStub
}

func newTestEnv() *testEnv {
	users := newUserRepoStub()
	coasters := newCoasterRepoStub()
	countries := newCountryRepoStub()
	access := newAccessRepoStub()
	ratings := newRatingRepoStub()
	engine := &engineStub{}
	pinger := &pingerStub{}

	srv := NewServer(
		useruc.New(users),
		coasteruc.New(coasters),
		countryuc.New(countries),
		accessuc.New(access),
		ratinguc.New(ratings, users, coasters),
		recommenduc.New(users, ratings, access, engine, 20),
		healthuc.New(pinger),
		zap.NewNop(),
	)

	return &testEnv{
		handler:  srv.Routes(),
		users:    users,
		coasters: coasters,
		ratings:  ratings,
		access:   access,
		engine:   engine,
		pinger:   pinger,
	}
}
