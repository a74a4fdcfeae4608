package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/trackworks/coasterec/internal/db"
	"github.com/trackworks/coasterec/internal/domain"
)

// store is the consumer interface for user persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/user.Repository.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save creates or overwrites a user document.
func (r *Repo) Save(ctx context.Context, u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	key := userKey(u.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Get returns a user by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.User, error) {
	key := userKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseUserDoc(raw)
}

// Exists checks whether a user exists.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	exists, err := r.store.Exists(ctx, userKey(id))
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", userKey(id), err)
	}
	return exists, nil
}

// List returns all users sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	keys, err := r.store.Scan(ctx, userKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	users := make([]domain.User, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		u, err := parseUserDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Delete removes a user.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := userKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func userKey(id string) string {
	return domain.KeyPrefix + "user:" + id
}

// parseUserDoc unwraps the array a "$"-path JSON.GET returns.
func parseUserDoc(raw []byte) (domain.User, error) {
	var docs []domain.User
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	if len(docs) == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return docs[0], nil
}
