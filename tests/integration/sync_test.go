package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/cache"
	"github.com/sneyderangulo/readinglist/internal/coordinator"
	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/logger"
	"github.com/sneyderangulo/readinglist/internal/scheduler"
	"github.com/sneyderangulo/readinglist/internal/store/sqlite"
)

type fixture struct {
	store   *sqlite.Store
	coord   *coordinator.Coordinator
	urls    *cache.SavedURLs
	persist *cache.MemoryPersistence
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	authSvc := auth.NewService(store, auth.NewPasswordHasherForTest(), tokens)

	urls := cache.NewSavedURLs()
	persist := cache.NewMemoryPersistence()
	coord := coordinator.New(store, authSvc, urls, persist, logger.NewNop(), "https://reading.example.com")

	user, _, err := authSvc.SignUp(context.Background(), "reader@example.com", "correct-horse", "Reader")
	require.NoError(t, err)

	return &fixture{store: store, coord: coord, urls: urls, persist: persist, userID: user.UID}
}

// The extension cache and the database must agree across surfaces: saves
// through the web API, toggles through the extension, and deletes from
// either side.
func TestCacheTracksCrossSurfaceMutations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Extension saves a tab.
	result, err := f.coord.Toggle(ctx, f.userID, domain.CreateBookmarkInput{
		URL: "https://example.com/article#section", Title: "Article",
	})
	require.NoError(t, err)
	require.Equal(t, domain.ActionSaved, result.Action)

	// Web app saves another page directly through the store.
	webSaved, err := f.store.CreateBookmark(ctx, f.userID, domain.CreateBookmarkInput{
		URL: "https://example.com/web-only", Title: "Web",
	})
	require.NoError(t, err)

	// The cache never saw the web save, but the read-through heals it.
	saved, err := f.coord.IsURLSaved(ctx, f.userID, "https://example.com/web-only")
	require.NoError(t, err)
	assert.True(t, saved)

	// Deleting through the coordinator rebuilds: both entries settle to the
	// database's state.
	require.NoError(t, f.coord.Delete(ctx, f.userID, webSaved.ID))
	saved, err = f.coord.IsURLSaved(ctx, f.userID, "https://example.com/web-only")
	require.NoError(t, err)
	assert.False(t, saved)

	saved, err = f.coord.IsURLSaved(ctx, f.userID, "https://example.com/article")
	require.NoError(t, err)
	assert.True(t, saved, "unrelated bookmark survives the rebuild")
}

// A restart loses the in-memory cache but not the persisted snapshot; the
// snapshot only serves its own user.
func TestSnapshotRestoreAfterRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.Toggle(ctx, f.userID, domain.CreateBookmarkInput{
		URL: "https://example.com/kept", Title: "Kept",
	})
	require.NoError(t, err)

	// Simulate a restart: fresh in-memory cache, same persistence.
	freshURLs := cache.NewSavedURLs()
	restarted := coordinator.New(f.store, nil, freshURLs, f.persist, logger.NewNop(), "")

	require.NoError(t, restarted.EnsureCacheReady(ctx, f.userID))
	found, warm := freshURLs.Contains(f.userID, "https://example.com/kept")
	assert.True(t, warm)
	assert.True(t, found)

	// Another user gets nothing from it.
	found, warm = freshURLs.Contains("someone-else", "https://example.com/kept")
	assert.False(t, found)
	assert.False(t, warm)
}

// The reconciler repairs a cache that drifted from the database.
func TestReconcilerRepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.Toggle(ctx, f.userID, domain.CreateBookmarkInput{
		URL: "https://example.com/real", Title: "Real",
	})
	require.NoError(t, err)

	// Poison the cache with an entry the database never had.
	f.urls.Add(f.userID, "https://example.com/ghost")

	reconciler := scheduler.NewCacheReconciler(f.coord, f.urls, logger.NewNop(), time.Hour, nil)
	reconciler.Reconcile(ctx)

	found, _ := f.urls.Contains(f.userID, "https://example.com/ghost")
	assert.False(t, found)
	found, _ = f.urls.Contains(f.userID, "https://example.com/real")
	assert.True(t, found)
}

// Sign-out wipes both the memory entry and the snapshot, and the next
// sign-in starts from the database.
func TestSignOutThenSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coord.Toggle(ctx, f.userID, domain.CreateBookmarkInput{
		URL: "https://example.com/mine", Title: "Mine",
	})
	require.NoError(t, err)

	f.coord.SignOut(ctx, f.userID)
	assert.False(t, f.urls.Warm(f.userID))
	_, ok, err := f.persist.Load(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, ok)

	user, _, err := f.coord.SignIn(ctx, "reader@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, f.userID, user.UID)

	found, warm := f.urls.Contains(f.userID, "https://example.com/mine")
	assert.True(t, warm, "sign-in rebuilds from the database")
	assert.True(t, found)
}
