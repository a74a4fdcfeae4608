package access

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

// store is the consumer interface for access-edge persistence (ISP).
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

// Repo implements usecase/access.Repository and recommend.AccessReader.
// Each edge document is indexed by its source country in a set, so the
// single-hop expansion is one SMEMBERS plus point reads.
type Repo struct {
	store store
}

// New creates an access-edge repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// NextID reserves the next edge id from the sequence.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	id, err := r.store.Incr(ctx, domain.KeyPrefix+"seq:access")
	if err != nil {
		return 0, fmt.Errorf("next access id: %w", err)
	}
	return id, nil
}

// Save stores an edge document and adds it to its source-country index.
func (r *Repo) Save(ctx context.Context, e domain.AccessEdge) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal access edge: %w", err)
	}
	key := accessKey(e.ID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	idxKey := sourceIndexKey(e.SourceCountry)
	if err := r.store.SAdd(ctx, idxKey, strconv.FormatInt(e.ID, 10)); err != nil {
		return fmt.Errorf("sadd %s: %w", idxKey, err)
	}
	return nil
}

// Get returns an edge by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.AccessEdge, error) {
	key := accessKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.AccessEdge{}, domain.ErrAccessNotFound
		}
		return domain.AccessEdge{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseEdgeDoc(raw)
}

// List returns all edges sorted by id.
func (r *Repo) List(ctx context.Context) ([]domain.AccessEdge, error) {
	keys, err := r.store.Scan(ctx, domain.KeyPrefix+"access:*")
	if err != nil {
		return nil, fmt.Errorf("scan access edges: %w", err)
	}

	edges := make([]domain.AccessEdge, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("json.get %s: %w", key, err)
		}
		e, err := parseEdgeDoc(raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		edges = append(edges, e)
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, nil
}

// ListBySource returns the edges leaving the given country, in insertion
// (id) order. An unknown country yields an empty slice, not an error.
func (r *Repo) ListBySource(ctx context.Context, countryName string) ([]domain.AccessEdge, error) {
	idxKey := sourceIndexKey(countryName)
	members, err := r.store.SMembers(ctx, idxKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", idxKey, err)
	}

	edges := make([]domain.AccessEdge, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt source index %s: member %q: %w", idxKey, m, err)
		}
		e, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrAccessNotFound) {
				continue // edge deleted, index entry stale
			}
			return nil, err
		}
		edges = append(edges, e)
	}

	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, nil
}

// Delete removes an edge and its source index entry.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	e, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.Del(ctx, accessKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", accessKey(id), err)
	}
	idxKey := sourceIndexKey(e.SourceCountry)
	if err := r.store.SRem(ctx, idxKey, strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("srem %s: %w", idxKey, err)
	}
	return nil
}

func accessKey(id int64) string {
	return domain.KeyPrefix + "access:" + strconv.FormatInt(id, 10)
}

func sourceIndexKey(countryName string) string {
	return domain.KeyPrefix + "accsrc:" + countryName
}

func parseEdgeDoc(raw []byte) (domain.AccessEdge, error) {
	var docs []domain.AccessEdge
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.AccessEdge{}, fmt.Errorf("unmarshal access edge: %w", err)
	}
	if len(docs) == 0 {
		return domain.AccessEdge{}, domain.ErrAccessNotFound
	}
	return docs[0], nil
}
