package country

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

// store is the consumer interface for country persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Incr(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/country.Repository. Country names are unique;
// a name index key maps each name to its id.
type Repo struct {
	store store
}

// New creates a country repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new country, assigning it an id from the sequence.
// Returns ErrCountryExists when the name is already taken.
func (r *Repo) Create(ctx context.Context, name string) (domain.Country, error) {
	nameKey := countryNameKey(name)

	taken, err := r.store.Exists(ctx, nameKey)
	if err != nil {
		return domain.Country{}, fmt.Errorf("check exists %s: %w", nameKey, err)
	}
	if taken {
		return domain.Country{}, fmt.Errorf("%w: %q", domain.ErrCountryExists, name)
	}

	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:country")
	if err != nil {
		return domain.Country{}, fmt.Errorf("next country id: %w", err)
	}

	c := domain.Country{ID: id, Name: name}
	data, err := json.Marshal(c)
	if err != nil {
		return domain.Country{}, fmt.Errorf("marshal country: %w", err)
	}
	if err := r.store.JSONSet(ctx, countryKey(id), "$", data); err != nil {
		return domain.Country{}, fmt.Errorf("json.set %s: %w", countryKey(id), err)
	}
	if err := r.store.Set(ctx, nameKey, []byte(strconv.FormatInt(id, 10))); err != nil {
		return domain.Country{}, fmt.Errorf("set %s: %w", nameKey, err)
	}
	return c, nil
}

// Get returns a country by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Country, error) {
	key := countryKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseCountryDoc(raw)
}

// GetByName returns a country by its unique name.
func (r *Repo) GetByName(ctx context.Context, name string) (domain.Country, error) {
	idRaw, err := r.store.Get(ctx, countryNameKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Country{}, domain.ErrCountryNotFound
		}
		return domain.Country{}, fmt.Errorf("get %s: %w", countryNameKey(name), err)
	}
	id, err := strconv.ParseInt(string(idRaw), 10, 64)
	if err != nil {
		return domain.Country{}, fmt.Errorf("corrupt name index for %q: %w", name, err)
	}
	return r.Get(ctx, id)
}

// List returns all countries sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.Country, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"country:*")
	if err != nil {
		return nil, fmt.Errorf("scan countries: %w", err)
	}

	countries := make([]domain.Country, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		c, err := parseCountryDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		countries = append(countries, c)
	}

	sort.Slice(countries, func(i, j int) bool { return countries[i].ID < countries[j].ID })
	return countries, nil
}

// Delete removes a country and its name index entry.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Del(ctx, countryKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", countryKey(id), err)
	}
	if err := r.store.Del(ctx, countryNameKey(c.Name)); err != nil {
		return fmt.Errorf("del %s: %w", countryNameKey(c.Name), err)
	}
	return nil
}

func countryKey(id int64) string {
	return domain.KeyPrefix + "country:" + strconv.FormatInt(id, 10)
}

func countryNameKey(name string) string {
	return domain.KeyPrefix + "cname:" + name
}

func parseCountryDoc(raw []byte) (domain.Country, error) {
	var docs []domain.Country
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Country{}, fmt.Errorf("unmarshal country: %w", err)
	}
	if len(docs) == 0 {
		return domain.Country{}, domain.ErrCountryNotFound
	}
	return docs[0], nil
}
