package webclient

import (
	"context"

	"github.com/sneyderangulo/readinglist/internal/domain"
)

// Mutation is one write against the API with an optional optimistic cache
// patch. Apply is nil for operations whose outcome the client cannot predict
// (toggle may save or unsave depending on server state).
type Mutation struct {
	Keys  []Key
	Apply func(cache *QueryCache)
	Op    func(ctx context.Context) error
}

// Run executes a mutation with the usual lifecycle: cancel in-flight
// refetches of the affected lists, snapshot them, apply the optimistic
// patch, run the write, restore the snapshots if it failed, and invalidate
// the lists either way so the next read reconciles with the server.
func (c *QueryCache) Run(ctx context.Context, m Mutation) error {
	c.CancelInflight(m.Keys...)

	snapshots := make(map[Key][]*domain.Bookmark, len(m.Keys))
	validity := make(map[Key]bool, len(m.Keys))
	for _, key := range m.Keys {
		snapshots[key], validity[key] = c.Snapshot(key)
	}

	if m.Apply != nil {
		m.Apply(c)
	}

	err := m.Op(ctx)
	if err != nil {
		for _, key := range m.Keys {
			c.Set(key, snapshots[key])
			if !validity[key] {
				c.Invalidate(key)
			}
		}
	}

	c.Invalidate(m.Keys...)
	return err
}

// removeByID drops a bookmark from a list, leaving the rest in order.
func removeByID(list []*domain.Bookmark, id string) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(list))
	for _, b := range list {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// prepend puts a bookmark at the head of a list, newest first.
func prepend(list []*domain.Bookmark, b *domain.Bookmark) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(list)+1)
	out = append(out, b)
	return append(out, list...)
}

// findByID returns the first bookmark with the id, or nil.
func findByID(list []*domain.Bookmark, id string) *domain.Bookmark {
	for _, b := range list {
		if b.ID == id {
			return b
		}
	}
	return nil
}
