package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/cache"
)

// Cached wraps a Store with a read-through cache. Writes go to the store
// first and then replace the cached board. A read never replaces a cached
// board with an older version, but a read racing a write can still leave
// the older one cached until its TTL runs out. Callers that must see the
// latest committed version read through [Authoritative]. Cache failures
// never fail a call; the store is the source of truth.
type Cached struct {
	base  Store
	cache cache.Cache
	keys  cache.Keyer
	ttl   time.Duration
}

// NewCached creates a caching wrapper. A nil cache disables caching and a
// nil keyer uses cache.DefaultKeyer.
func NewCached(base Store, c cache.Cache, keys cache.Keyer, ttl time.Duration) *Cached {
	if base == nil {
		panic("store.NewCached: base store is nil")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keys == nil {
		keys = cache.NewDefaultKeyer()
	}
	return &Cached{base: base, cache: c, keys: keys, ttl: max(ttl, 0)}
}

func (c *Cached) Get(ctx context.Context, id string) (*board.Board, error) {
	key := c.keys.BoardKey(id)
	if data, ok := c.load(ctx, key); ok {
		if b, err := decode(data); err == nil {
			return b, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	b, err := c.base.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.newerCached(ctx, key, b.Version) {
		c.put(ctx, key, b)
	}
	return b, nil
}

// Save writes b to the store and then caches it, replacing any older entry.
func (c *Cached) Save(ctx context.Context, b *board.Board) error {
	if err := c.base.Save(ctx, b); err != nil {
		return err
	}
	c.put(ctx, c.keys.BoardKey(b.ID), b)
	_ = c.cache.Delete(ctx, c.keys.ListKey())
	return nil
}

func (c *Cached) Delete(ctx context.Context, id string) error {
	err := c.base.Delete(ctx, id)
	c.evict(ctx, id)
	return err
}

func (c *Cached) List(ctx context.Context) ([]Summary, error) {
	key := c.keys.ListKey()
	if data, ok := c.load(ctx, key); ok {
		var out []Summary
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	out, err := c.base.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return out, nil
}

// Uncached returns the wrapped store.
func (c *Cached) Uncached() Store { return c.base }

// Close closes the store and the cache.
func (c *Cached) Close() error {
	return errors.Join(c.base.Close(), c.cache.Close())
}

func (c *Cached) load(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := c.cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	return data, true
}

// newerCached reports whether key holds a board at or above version.
func (c *Cached) newerCached(ctx context.Context, key string, version int64) bool {
	data, ok := c.load(ctx, key)
	if !ok {
		return false
	}
	cached, err := decode(data)
	return err == nil && cached.Version >= version
}

func (c *Cached) put(ctx context.Context, key string, b *board.Board) {
	data, err := encode(b)
	if err != nil {
		_ = c.cache.Delete(ctx, key)
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		_ = c.cache.Delete(ctx, key)
	}
}

func (c *Cached) evict(ctx context.Context, id string) {
	_ = c.cache.Delete(ctx, c.keys.BoardKey(id))
	_ = c.cache.Delete(ctx, c.keys.ListKey())
}

// Authoritative returns the store beneath any read cache wrapped around s,
// or s itself.
func Authoritative(s Store) Store {
	if u, ok := s.(interface{ Uncached() Store }); ok {
		return u.Uncached()
	}
	return s
}

var _ Store = (*Cached)(nil)
