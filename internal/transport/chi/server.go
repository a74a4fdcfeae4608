package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use cases to the HTTP API.
type Server struct {
	users         *useruc.Service
	coasters      *coasteruc.Service
	countries     *countryuc.Service
	access        *accessuc.Service
	ratings       *ratinguc.Service
	recommend     *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	users *useruc.Service,
	coasters *coasteruc.Service,
	countries *countryuc.Service,
	access *accessuc.Service,
	ratings *ratinguc.Service,
	recommend *recommenduc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		users:     users,
		coasters:  coasters,
		countries: countries,
		access:    access,
		ratings:   ratings,
		recommend: recommend,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound),
		sentinelHandler(domain.ErrCoasterNotFound, http.StatusNotFound, codeCoasterNotFound),
		sentinelHandler(domain.ErrCountryNotFound, http.StatusNotFound, codeCountryNotFound),
		sentinelHandler(domain.ErrAccessNotFound, http.StatusNotFound, codeAccessNotFound),
		sentinelHandler(domain.ErrRatingNotFound, http.StatusNotFound, codeRatingNotFound),
		sentinelHandler(domain.ErrCountryExists, http.StatusConflict, codeCountryExists),
		sentinelHandler(domain.ErrInvalidRating, http.StatusBadRequest, codeInvalidRating),
		sentinelHandler(domain.ErrRecommenderUnavailable, http.StatusServiceUnavailable, codeRecommenderUnavailable),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, codeMalformedEngineReply),
	}
	return s
}

// Routes builds the route tree. Middleware is attached by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.createUser)
			r.Get("/", s.listUsers)
			r.Get("/{id}", s.getUser)
			r.Put("/{id}", s.updateUser)
			r.Delete("/{id}", s.deleteUser)
		})
		r.Route("/coasters", func(r chi.Router) {
			r.Post("/", s.createCoaster)
			r.Get("/", s.listCoasters)
			r.Get("/{id}", s.getCoaster)
			r.Put("/{id}", s.updateCoaster)
			r.Delete("/{id}", s.deleteCoaster)
		})
		r.Route("/countries", func(r chi.Router) {
			r.Post("/", s.createCountry)
			r.Get("/", s.listCountries)
			r.Get("/{id}", s.getCountry)
			r.Delete("/{id}", s.deleteCountry)
		})
		r.Route("/country-access", func(r chi.Router) {
			r.Post("/", s.createAccess)
			r.Get("/", s.listAccess)
			r.Get("/{id}", s.getAccess)
			r.Put("/{id}", s.updateAccess)
			r.Delete("/{id}", s.deleteAccess)
		})
		r.Route("/ratings", func(r chi.Router) {
			r.Post("/", s.createRating)
			r.Get("/", s.listRatings)
			r.Get("/{id}", s.getRating)
			r.Put("/{id}", s.updateRating)
			r.Delete("/{id}", s.deleteRating)
		})
		r.Get("/recommendations/{userId}", s.getRecommendations)
	})

	return r
}

// --- Users ---

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.users.Create(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.users.Update(r.Context(), domain.User{
		ID:        chi.URLParam(r, "id"),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Coasters ---

func (s *Server) createCoaster(w http.ResponseWriter, r *http.Request) {
	var req coasterRequest
	if !s.decode(w, r, &req) {
		return
	}

	c, err := s.coasters.Create(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listCoasters(w http.ResponseWriter, r *http.Request) {
	coasters, err := s.coasters.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coasters)
}

func (s *Server) getCoaster(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	c, err := s.coasters.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateCoaster(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req coasterRequest
	if !s.decode(w, r, &req) {
		return
	}

	c := req.toDomain()
	c.ID = id
	updated, err := s.coasters.Update(r.Context(), c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteCoaster(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.coasters.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Countries ---

func (s *Server) createCountry(w http.ResponseWriter, r *http.Request) {
	var req createCountryRequest
	if !s.decode(w, r, &req) {
		return
	}

	c, err := s.countries.Create(r.Context(), req.Name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listCountries(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		c, err := s.countries.GetByName(r.Context(), name)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []domain.Country{c})
		return
	}

	countries, err := s.countries.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countries)
}

func (s *Server) getCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	c, err := s.countries.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.countries.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Country access ---

func (s *Server) createAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if !s.decode(w, r, &req) {
		return
	}

	e, err := s.access.Create(r.Context(), req.SourceCountry, req.AccessibleCountry)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) listAccess(w http.ResponseWriter, r *http.Request) {
	if source := r.URL.Query().Get("source"); source != "" {
		edges, err := s.access.ListBySource(r.Context(), source)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, edges)
		return
	}

	edges, err := s.access.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, edges)
}

func (s *Server) getAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	e, err := s.access.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req accessRequest
	if !s.decode(w, r, &req) {
		return
	}

	e, err := s.access.Update(r.Context(), domain.AccessEdge{
		ID:                id,
		SourceCountry:     req.SourceCountry,
		AccessibleCountry: req.AccessibleCountry,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteAccess(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.access.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Ratings ---

func (s *Server) createRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !s.decode(w, r, &req) {
		return
	}

	rt, err := s.ratings.Create(r.Context(), req.toDomain())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (s *Server) listRatings(w http.ResponseWriter, r *http.Request) {
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		ratings, err := s.ratings.ListForUser(r.Context(), userID)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ratings)
		return
	}

	ratings, err := s.ratings.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	rt, err := s.ratings.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) updateRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if !s.decode(w, r, &req) {
		return
	}

	rt := req.toDomain()
	rt.ID = id
	updated, err := s.ratings.Update(r.Context(), rt)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.ratings.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Recommendations ---

func (s *Server) getRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	topK := 0
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "top_k must be a positive integer")
			return
		}
		topK = v
	}

	recs, err := s.recommend.Recommendations(r.Context(), userID, topK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// --- Health / metrics ---

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Helpers ---

// decode parses and validates a JSON request body. Writes the error
// response itself and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return false
	}
	return true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUserNotFound,
		domain.ErrCoasterNotFound,
		domain.ErrCountryNotFound,
		domain.ErrCountryExists,
		domain.ErrAccessNotFound,
		domain.ErrRatingNotFound,
		domain.ErrInvalidRating,
		domain.ErrRecommenderUnavailable,
		domain.ErrMalformedResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
