package webclient

import (
	"context"
	"time"

	"github.com/sneyderangulo/readinglist/internal/domain"
)

// Bookmarks is the list-management surface the web UI uses: cached reads and
// optimistic writes over the REST client.
type Bookmarks struct {
	api   *Client
	cache *QueryCache
}

func NewBookmarks(api *Client, cache *QueryCache) *Bookmarks {
	return &Bookmarks{api: api, cache: cache}
}

// Cache exposes the underlying query cache for snapshot-driven rendering.
func (b *Bookmarks) Cache() *QueryCache {
	return b.cache
}

// Active returns the active list, from cache when valid.
func (b *Bookmarks) Active(ctx context.Context) ([]*domain.Bookmark, error) {
	return b.cache.GetOrFetch(ctx, KeyActive, b.api.ListBookmarks)
}

// Archived returns the archived list, from cache when valid.
func (b *Bookmarks) Archived(ctx context.Context) ([]*domain.Bookmark, error) {
	return b.cache.GetOrFetch(ctx, KeyArchived, b.api.ListArchived)
}

// Recent returns the recent list, from cache when valid.
func (b *Bookmarks) Recent(ctx context.Context, limit int) ([]*domain.Bookmark, error) {
	return b.cache.GetOrFetch(ctx, KeyRecent, func(ctx context.Context) ([]*domain.Bookmark, error) {
		return b.api.ListRecent(ctx, limit)
	})
}

// Create saves a URL with an optimistic prepend. The placeholder has no id,
// the invalidation after the write swaps in the server's row.
func (b *Bookmarks) Create(ctx context.Context, input domain.CreateBookmarkInput) error {
	placeholder := &domain.Bookmark{
		URL:           input.URL,
		NormalizedURL: domain.NormalizeURL(input.URL),
		Title:         input.Title,
		Favicon:       input.Favicon,
		Description:   input.Description,
		CreatedAt:     time.Now(),
	}
	return b.cache.Run(ctx, Mutation{
		Keys: []Key{KeyActive, KeyRecent},
		Apply: func(c *QueryCache) {
			c.Patch(KeyActive, func(list []*domain.Bookmark) []*domain.Bookmark {
				return prepend(list, placeholder)
			})
		},
		Op: func(ctx context.Context) error {
			_, err := b.api.CreateBookmark(ctx, input)
			return err
		},
	})
}

// Toggle saves or unsaves a URL. The outcome depends on server state, so
// there is no optimistic patch, the affected lists are just invalidated.
func (b *Bookmarks) Toggle(ctx context.Context, input domain.CreateBookmarkInput) (*domain.ToggleResult, error) {
	var result *domain.ToggleResult
	err := b.cache.Run(ctx, Mutation{
		Keys: AllKeys,
		Op: func(ctx context.Context) error {
			var opErr error
			result, opErr = b.api.ToggleBookmark(ctx, input)
			return opErr
		},
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Archive moves a bookmark out of the active list optimistically.
func (b *Bookmarks) Archive(ctx context.Context, id string) error {
	return b.cache.Run(ctx, Mutation{
		Keys: []Key{KeyActive, KeyArchived},
		Apply: func(c *QueryCache) {
			var moved *domain.Bookmark
			c.Patch(KeyActive, func(list []*domain.Bookmark) []*domain.Bookmark {
				moved = findByID(list, id)
				return removeByID(list, id)
			})
			if moved != nil {
				archived := *moved
				now := time.Now()
				archived.ArchivedAt = &now
				c.Patch(KeyArchived, func(list []*domain.Bookmark) []*domain.Bookmark {
					return prepend(list, &archived)
				})
			}
		},
		Op: func(ctx context.Context) error {
			return b.api.ArchiveBookmark(ctx, id)
		},
	})
}

// Unarchive moves a bookmark back to the active list optimistically.
func (b *Bookmarks) Unarchive(ctx context.Context, id string) error {
	return b.cache.Run(ctx, Mutation{
		Keys: []Key{KeyActive, KeyArchived},
		Apply: func(c *QueryCache) {
			var moved *domain.Bookmark
			c.Patch(KeyArchived, func(list []*domain.Bookmark) []*domain.Bookmark {
				moved = findByID(list, id)
				return removeByID(list, id)
			})
			if moved != nil {
				restored := *moved
				restored.ArchivedAt = nil
				c.Patch(KeyActive, func(list []*domain.Bookmark) []*domain.Bookmark {
					return prepend(list, &restored)
				})
			}
		},
		Op: func(ctx context.Context) error {
			return b.api.UnarchiveBookmark(ctx, id)
		},
	})
}

// Delete removes a bookmark from every list optimistically.
func (b *Bookmarks) Delete(ctx context.Context, id string) error {
	return b.cache.Run(ctx, Mutation{
		Keys: AllKeys,
		Apply: func(c *QueryCache) {
			for _, key := range AllKeys {
				c.Patch(key, func(list []*domain.Bookmark) []*domain.Bookmark {
					return removeByID(list, id)
				})
			}
		},
		Op: func(ctx context.Context) error {
			return b.api.DeleteBookmark(ctx, id)
		},
	})
}
