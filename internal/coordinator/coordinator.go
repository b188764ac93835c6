// Package coordinator drives the browser-extension side of the product: it
// keeps the per-user saved-URL cache consistent with the bookmark store and
// answers the extension's messages.
package coordinator

import (
	"context"
	"fmt"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/cache"
	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/logger"
)

// BookmarkStore is the slice of the persistent store the coordinator needs.
type BookmarkStore interface {
	GetBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	GetRecentBookmarks(ctx context.Context, userID string, limit int) ([]*domain.Bookmark, error)
	IsURLSaved(ctx context.Context, userID, url string) (bool, error)
	ToggleBookmark(ctx context.Context, userID, url string, meta domain.BookmarkMeta) (*domain.ToggleResult, error)
	GetBookmarkByID(ctx context.Context, id string) (*domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
}

// AuthService is the slice of the auth layer the coordinator needs for the
// sign-in message and the popup's user projection.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (domain.AuthUser, string, error)
	CurrentUser(ctx context.Context, userID string) (domain.AuthUser, error)
}

// popupRecentLimit is how many bookmarks the popup's recent list shows.
const popupRecentLimit = 10

// Coordinator owns the saved-URL cache lifecycle. All mutations flow through
// it so the cache and the store cannot drift for long: toggles patch the
// cache incrementally, deletes trigger a full rebuild, sign-out wipes it.
type Coordinator struct {
	store     BookmarkStore
	auth      AuthService
	cache     *cache.SavedURLs
	persist   cache.Persistence
	log       logger.Logger
	webAppURL string
}

func New(store BookmarkStore, auth AuthService, urls *cache.SavedURLs, persist cache.Persistence, log logger.Logger, webAppURL string) *Coordinator {
	return &Coordinator{
		store:     store,
		auth:      auth,
		cache:     urls,
		persist:   persist,
		log:       log,
		webAppURL: webAppURL,
	}
}

// EnsureCacheReady makes sure the owner has a warm cache entry: already warm
// is a no-op, otherwise the persisted snapshot is restored, and only when
// neither exists does the store get queried for a full rebuild.
func (c *Coordinator) EnsureCacheReady(ctx context.Context, ownerID string) error {
	if c.cache.Warm(ownerID) {
		return nil
	}

	urls, ok, err := c.persist.Load(ctx, ownerID)
	if err != nil {
		c.log.Warnf("failed to restore saved-url cache for %s: %v", ownerID, err)
	}
	if ok {
		c.cache.Replace(ownerID, urls)
		return nil
	}

	return c.RebuildCache(ctx, ownerID)
}

// RebuildCache replaces the owner's cache entry with the store's view of
// their active bookmarks.
func (c *Coordinator) RebuildCache(ctx context.Context, ownerID string) error {
	bookmarks, err := c.store.GetBookmarks(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to rebuild saved-url cache: %w", err)
	}

	urls := make([]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		urls = append(urls, b.NormalizedURL)
	}
	c.cache.Replace(ownerID, urls)
	c.persistSnapshot(ctx, ownerID)
	return nil
}

// IsURLSaved answers "is this page saved" from the cache when it can. A warm
// cache hit is trusted. A miss is verified against the store, and a stale
// miss heals the cache in place.
func (c *Coordinator) IsURLSaved(ctx context.Context, ownerID, rawURL string) (bool, error) {
	normalized := domain.NormalizeURL(rawURL)

	if err := c.EnsureCacheReady(ctx, ownerID); err != nil {
		c.log.Warnf("cache unavailable, falling back to store: %v", err)
		return c.store.IsURLSaved(ctx, ownerID, rawURL)
	}

	if found, warm := c.cache.Contains(ownerID, normalized); warm && found {
		return true, nil
	}

	saved, err := c.store.IsURLSaved(ctx, ownerID, rawURL)
	if err != nil {
		return false, err
	}
	if saved {
		c.cache.Add(ownerID, normalized)
		c.persistSnapshot(ctx, ownerID)
	}
	return saved, nil
}

// Toggle saves or unsaves the URL and patches the cache to match.
func (c *Coordinator) Toggle(ctx context.Context, ownerID string, input domain.CreateBookmarkInput) (*domain.ToggleResult, error) {
	if err := c.EnsureCacheReady(ctx, ownerID); err != nil {
		c.log.Warnf("failed to warm cache before toggle: %v", err)
	}

	result, err := c.store.ToggleBookmark(ctx, ownerID, input.URL, domain.BookmarkMeta{
		Title:       input.Title,
		Favicon:     input.Favicon,
		Description: input.Description,
	})
	if err != nil {
		return nil, err
	}

	normalized := domain.NormalizeURL(input.URL)
	switch result.Action {
	case domain.ActionSaved:
		c.cache.Add(ownerID, normalized)
	case domain.ActionUnsaved:
		c.cache.Remove(ownerID, normalized)
	}
	c.persistSnapshot(ctx, ownerID)
	return result, nil
}

// Delete removes a bookmark the owner holds, then rebuilds the cache from
// the store. A delete can come from any surface, so a full rebuild is the
// only safe refresh.
func (c *Coordinator) Delete(ctx context.Context, ownerID, bookmarkID string) error {
	bookmark, err := c.store.GetBookmarkByID(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if bookmark.UserID != ownerID {
		return apperror.NotFound("bookmark", bookmarkID)
	}

	if err := c.store.DeleteBookmark(ctx, bookmarkID); err != nil {
		return err
	}
	return c.RebuildCache(ctx, ownerID)
}

// SignIn authenticates and leaves the new owner with a freshly rebuilt
// cache, discarding whatever a previous session left behind.
func (c *Coordinator) SignIn(ctx context.Context, email, password string) (domain.AuthUser, string, error) {
	user, token, err := c.auth.SignIn(ctx, email, password)
	if err != nil {
		return domain.AuthUser{}, "", err
	}

	if err := c.RebuildCache(ctx, user.UID); err != nil {
		c.log.Warnf("failed to build cache after sign-in for %s: %v", user.UID, err)
	}
	return user, token, nil
}

// SignOut drops the owner's cache entry and its persisted snapshot.
func (c *Coordinator) SignOut(ctx context.Context, ownerID string) {
	c.cache.Invalidate(ownerID)
	if err := c.persist.Clear(ctx, ownerID); err != nil {
		c.log.Warnf("failed to clear persisted cache for %s: %v", ownerID, err)
	}
}

// NotifySaved records a save made from another surface (web app REST call)
// so warm caches stay fresh without a rebuild. Cold caches are left alone,
// they rebuild on first use anyway.
func (c *Coordinator) NotifySaved(ctx context.Context, ownerID, rawURL string) {
	if !c.cache.Warm(ownerID) {
		return
	}
	c.cache.Add(ownerID, domain.NormalizeURL(rawURL))
	c.persistSnapshot(ctx, ownerID)
}

// NotifyUnsaved is the counterpart for archives and removals made elsewhere.
func (c *Coordinator) NotifyUnsaved(ctx context.Context, ownerID, rawURL string) {
	if !c.cache.Warm(ownerID) {
		return
	}
	c.cache.Remove(ownerID, domain.NormalizeURL(rawURL))
	c.persistSnapshot(ctx, ownerID)
}

// PopupState is what the extension popup renders for the current tab. User
// is nil when nobody is signed in, which is how the popup picks between the
// sign-in prompt and the saved-state view.
type PopupState struct {
	User         *domain.AuthUser   `json:"user"`
	CurrentURL   string             `json:"currentUrl"`
	CurrentTabID int                `json:"currentTabId,omitempty"`
	IsSaved      bool               `json:"isSaved"`
	Recent       []*domain.Bookmark `json:"recent"`
}

// CurrentState assembles the popup view: who is signed in, whether the tab's
// URL is saved, and the most recent bookmarks. An empty owner id yields the
// signed-out state.
func (c *Coordinator) CurrentState(ctx context.Context, ownerID, tabURL string, tabID int) (PopupState, error) {
	state := PopupState{
		CurrentURL:   domain.NormalizeURL(tabURL),
		CurrentTabID: tabID,
		Recent:       []*domain.Bookmark{},
	}
	if ownerID == "" {
		return state, nil
	}

	user, err := c.auth.CurrentUser(ctx, ownerID)
	if err != nil {
		return state, err
	}
	state.User = &user

	saved, err := c.IsURLSaved(ctx, ownerID, tabURL)
	if err != nil {
		return state, err
	}
	state.IsSaved = saved

	recent, err := c.store.GetRecentBookmarks(ctx, ownerID, popupRecentLimit)
	if err != nil {
		return state, err
	}
	if recent != nil {
		state.Recent = recent
	}
	return state, nil
}

// WebAppURL is where the extension sends users who want the full list.
func (c *Coordinator) WebAppURL() string {
	return c.webAppURL
}

func (c *Coordinator) persistSnapshot(ctx context.Context, ownerID string) {
	if err := c.persist.Save(ctx, ownerID, c.cache.Snapshot(ownerID)); err != nil {
		c.log.Warnf("failed to persist saved-url cache for %s: %v", ownerID, err)
	}
}
