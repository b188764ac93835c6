// Package cache holds the saved-URL cache the extension coordinator answers
// "is this page saved" from. Entries are keyed by owning user so a stale
// cache from a previous sign-in can never leak into another user's answers.
package cache

import "sync"

// SavedURLs is the in-memory side of the cache: one set of normalized URLs
// per owner. Every accessor takes the owner id, so the owner check happens
// under the same lock as the read.
type SavedURLs struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	urls map[string]struct{}
}

func NewSavedURLs() *SavedURLs {
	return &SavedURLs{entries: make(map[string]*entry)}
}

// Warm reports whether an entry exists for the owner. An empty entry is
// still warm: a user with no bookmarks has a definitive answer.
func (c *SavedURLs) Warm(ownerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[ownerID]
	return ok
}

// Contains reports whether the owner's entry holds the normalized URL.
// The second return is false when the owner has no warm entry at all, so
// callers can tell "cache says no" from "cache doesn't know".
func (c *SavedURLs) Contains(ownerID, normalizedURL string) (found, warm bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[ownerID]
	if !ok {
		return false, false
	}
	_, found = e.urls[normalizedURL]
	return found, true
}

// Replace rebuilds the owner's entry from scratch.
func (c *SavedURLs) Replace(ownerID string, urls []string) {
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ownerID] = &entry{urls: set}
}

// Add records a normalized URL for the owner, creating the entry if needed.
func (c *SavedURLs) Add(ownerID, normalizedURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ownerID]
	if !ok {
		e = &entry{urls: make(map[string]struct{})}
		c.entries[ownerID] = e
	}
	e.urls[normalizedURL] = struct{}{}
}

// Remove drops a normalized URL from the owner's entry.
func (c *SavedURLs) Remove(ownerID, normalizedURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[ownerID]; ok {
		delete(e.urls, normalizedURL)
	}
}

// Snapshot returns the owner's URLs for persisting.
func (c *SavedURLs) Snapshot(ownerID string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[ownerID]
	if !ok {
		return nil
	}
	urls := make([]string, 0, len(e.urls))
	for u := range e.urls {
		urls = append(urls, u)
	}
	return urls
}

// Invalidate discards the owner's entry entirely.
func (c *SavedURLs) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ownerID)
}

// Owners lists the owners with a warm entry. The reconciler uses this to
// know which caches to rebuild.
func (c *SavedURLs) Owners() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owners := make([]string, 0, len(c.entries))
	for id := range c.entries {
		owners = append(owners, id)
	}
	return owners
}
