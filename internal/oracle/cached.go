package oracle

import (
	"context"
	"sync"

	"github.com/minio/highwayhash"
)

var cacheKey = []byte("joinlineage-oracle-prompt-cache!")

// Cached memoizes successful responses by prompt digest.
type Cached struct {
	next Oracle

	mu      sync.RWMutex
	entries map[uint64]string
	hits    int
}

// NewCached wraps next with an in-memory response cache.
func NewCached(next Oracle) *Cached {
	return &Cached{next: next, entries: make(map[uint64]string)}
}

// Query returns the cached response for prompt or asks next and caches the answer.
func (c *Cached) Query(ctx context.Context, prompt string) (string, error) {
	o, err := c.Admit(ctx, prompt)
	if err != nil {
		return "", err
	}
	return o.Query(ctx, prompt)
}

// Admit answers cache hits immediately. On a miss it waits for the wrapped
// oracle to admit the call and returns an oracle that stores the answer.
func (c *Cached) Admit(ctx context.Context, prompt string) (Oracle, error) {
	key, err := digest(prompt)
	if err != nil {
		return Admit(ctx, c.next, prompt)
	}

	c.mu.Lock()
	resp, ok := c.entries[key]
	if ok {
		c.hits++
	}
	c.mu.Unlock()
	if ok {
		return Func(func(context.Context, string) (string, error) { return resp, nil }), nil
	}

	next, err := Admit(ctx, c.next, prompt)
	if err != nil {
		return nil, err
	}
	return &cacheFill{cache: c, key: key, next: next}, nil
}

type cacheFill struct {
	cache *Cached
	key   uint64
	next  Oracle
}

func (f *cacheFill) Query(ctx context.Context, prompt string) (string, error) {
	resp, err := f.next.Query(ctx, prompt)
	if err != nil {
		return "", err
	}
	f.cache.mu.Lock()
	f.cache.entries[f.key] = resp
	f.cache.mu.Unlock()
	return resp, nil
}

// Ping delegates to the wrapped oracle.
func (c *Cached) Ping(ctx context.Context) error {
	return Ping(ctx, c.next)
}

// Hits returns how many queries were answered from the cache.
func (c *Cached) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}

func digest(prompt string) (uint64, error) {
	h, err := highwayhash.New64(cacheKey)
	if err != nil {
		return 0, err
	}
	if _, err := h.Write([]byte(prompt)); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
