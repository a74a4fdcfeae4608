package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/trackworks/coasterec/internal/db"
	"github.com/trackworks/coasterec/internal/domain"
)

// store is the consumer interface for rating persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/rating.Repository and recommend.RatingReader.
// Ratings are indexed by user in a set so a user's history is one
// SMEMBERS plus point reads.
type Repo struct {
	store store
}

// New creates a rating repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextID reserves the next rating id from the sequence.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:rating")
	if err != nil {
		return 0, fmt.Errorf("next rating id: %w", err)
	}
	return id, nil
}

// Save stores a rating document and adds it to its user index.
func (r *Repo) Save(ctx context.Context, rt domain.Rating) error {
	data, err := json.Marshal(rt)
	if err != nil {
		return fmt.Errorf("marshal rating: %w", err)
	}
	key := ratingKey(rt.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	idxKey := userIndexKey(rt.UserID)
	if err := r.store.SAdd(ctx, idxKey, strconv.FormatInt(rt.ID, 10)); err != nil {
		return fmt.Errorf("sadd %s: %w", idxKey, err)
	}
	return nil
}

// Get returns a rating by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Rating, error) {
	key := ratingKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Rating{}, domain.ErrRatingNotFound
		}
		return domain.Rating{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseRatingDoc(raw)
}

// List returns all ratings sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.Rating, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"rating:*")
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}

	ratings := make([]domain.Rating, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		rt, err := parseRatingDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		ratings = append(ratings, rt)
	}

	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

// ListForUser returns the user's ratings in insertion (id) order. A user
// with no ratings yields an empty slice, not an error.
func (r *Repo) ListForUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	idxKey := userIndexKey(userID)
	members, err := r.store.SMembers(ctx, idxKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", idxKey, err)
	}

	ratings := make([]domain.Rating, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt user index %s: member %q: %w", idxKey, m, err)
		}
		rt, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRatingNotFound) {
				continue // rating deleted, index entry stale
			}
			return nil, err
		}
		ratings = append(ratings, rt)
	}

	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

// Delete removes a rating and its user index entry.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	rt, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Del(ctx, ratingKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", ratingKey(id), err)
	}
	idxKey := userIndexKey(rt.UserID)
	if err := r.store.SRem(ctx, idxKey, strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("srem %s: %w", idxKey, err)
	}
	return nil
}

func ratingKey(id int64) string {
	return domain.KeyPrefix + "rating:" + strconv.FormatInt(id, 10)
}

func userIndexKey(userID string) string {
	return domain.KeyPrefix + "userratings:" + userID
}

func parseRatingDoc(raw []byte) (domain.Rating, error) {
	var docs []domain.Rating
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Rating{}, fmt.Errorf("unmarshal rating: %w", err)
	}
	if len(docs) == 0 {
		return domain.Rating{}, domain.ErrRatingNotFound
	}
	return docs[0], nil
}
