package coaster

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

// store is the consumer interface for coaster persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/coaster.Repository.
type Repo struct {
	store store
}

// New creates a coaster repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextID reserves the next coaster id from the sequence.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:coaster")
	if err != nil {
		return 0, fmt.Errorf("next coaster id: %w", err)
	}
	return id, nil
}

// Save creates or overwrites a coaster document.
func (r *Repo) Save(ctx context.Context, c domain.Coaster) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal coaster: %w", err)
	}
	key := coasterKey(c.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a coaster by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Coaster, error) {
	key := coasterKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Coaster{}, domain.ErrCoasterNotFound
		}
		return domain.Coaster{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseCoasterDoc(raw)
}

// List returns all coasters sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.Coaster, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"coaster:*")
	if err != nil {
		return nil, fmt.Errorf("scan coasters: %w", err)
	}

	coasters := make([]domain.Coaster, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		c, err := parseCoasterDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		coasters = append(coasters, c)
	}

	sort.Slice(coasters, func(i, j int) bool { return coasters[i].ID < coasters[j].ID })
	return coasters, nil
}

// Exists checks whether a coaster exists.
func (r *Repo) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.store.Exists(ctx, coasterKey(id))
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", coasterKey(id), err)
	}
	return exists, nil
}

// Delete removes a coaster.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	key := coasterKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrCoasterNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func coasterKey(id int64) string {
	return domain.KeyPrefix + "coaster:" + strconv.FormatInt(id, 10)
}

func parseCoasterDoc(raw []byte) (domain.Coaster, error) {
	var docs []domain.Coaster
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Coaster{}, fmt.Errorf("unmarshal coaster: %w", err)
	}
	if len(docs) == 0 {
		return domain.Coaster{}, domain.ErrCoasterNotFound
	}
	return docs[0], nil
}
