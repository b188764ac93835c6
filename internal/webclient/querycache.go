// Package webclient is the client-side layer the web UI builds on: a small
// query cache over the bookmark lists, an optimistic mutation runner, and an
// HTTP client for the REST API.
package webclient

import (
	"context"
	"sync"

	"github.com/sneyderangulo/readinglist/internal/domain"
)

// Key identifies one cached bookmark list.
type Key string

const (
	KeyActive   Key = "bookmarks/active"
	KeyArchived Key = "bookmarks/archived"
	KeyRecent   Key = "bookmarks/recent"
)

// AllKeys covers every list a bookmark can appear in.
var AllKeys = []Key{KeyActive, KeyArchived, KeyRecent}

type queryEntry struct {
	data   []*domain.Bookmark
	valid  bool
	cancel context.CancelFunc
}

// QueryCache holds the last fetched bookmark lists. Entries go invalid on
// mutation and get refreshed by the next read.
type QueryCache struct {
	mu      sync.Mutex
	entries map[Key]*queryEntry
}

func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[Key]*queryEntry)}
}

func (c *QueryCache) entry(key Key) *queryEntry {
	e, ok := c.entries[key]
	if !ok {
		e = &queryEntry{}
		c.entries[key] = e
	}
	return e
}

// Snapshot returns a copy of the entry's data and whether it is still valid.
// Invalid entries keep their data so the UI has something to show while a
// refetch runs.
func (c *QueryCache) Snapshot(key Key) ([]*domain.Bookmark, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]*domain.Bookmark, len(e.data))
	copy(out, e.data)
	return out, e.valid
}

// Set stores fresh data for the key and marks it valid.
func (c *QueryCache) Set(key Key, data []*domain.Bookmark) {
	stored := make([]*domain.Bookmark, len(data))
	copy(stored, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.data = stored
	e.valid = true
}

// Patch applies an in-place transform to the entry's data. Used for
// optimistic updates, so validity is left alone.
func (c *QueryCache) Patch(key Key, fn func([]*domain.Bookmark) []*domain.Bookmark) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(key)
	e.data = fn(e.data)
}

// Invalidate marks entries stale without dropping their data.
func (c *QueryCache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.valid = false
		}
	}
}

// CancelInflight aborts any refetch running for the keys, so a fetch started
// before a mutation cannot land after it and clobber the optimistic state.
func (c *QueryCache) CancelInflight(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok && e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
	}
}

// GetOrFetch returns the cached data when valid, and otherwise runs fetch
// under a cancellable context registered with the entry. A fetch cancelled
// by a concurrent mutation returns the context error, never partial data.
func (c *QueryCache) GetOrFetch(ctx context.Context, key Key, fetch func(context.Context) ([]*domain.Bookmark, error)) ([]*domain.Bookmark, error) {
	if data, valid := c.Snapshot(key); valid {
		return data, nil
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.entry(key).cancel = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && e.cancel != nil {
			e.cancel = nil
		}
		c.mu.Unlock()
	}()

	data, err := fetch(fetchCtx)
	if err != nil {
		return nil, err
	}
	if fetchCtx.Err() != nil {
		return nil, fetchCtx.Err()
	}
	c.Set(key, data)
	return data, nil
}
