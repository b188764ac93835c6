package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, DisplayName: "Test User", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestCreateBookmarkIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	first, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{
		URL:   "https://example.com/article#section",
		Title: "Article",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", first.NormalizedURL)
	assert.Nil(t, first.ArchivedAt)

	// Same page, different fragment and metadata: same bookmark comes back.
	second, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{
		URL:   "https://example.com/article#other",
		Title: "Different title",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Article", second.Title)

	active, err := s.GetBookmarks(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCreateBookmarkPartitionedByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, s, "alice@example.com")
	bob := newTestUser(t, s, "bob@example.com")

	a, err := s.CreateBookmark(ctx, alice.ID, domain.CreateBookmarkInput{URL: "https://example.com/x", Title: "x"})
	require.NoError(t, err)
	b, err := s.CreateBookmark(ctx, bob.ID, domain.CreateBookmarkInput{URL: "https://example.com/x", Title: "x"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)

	saved, err := s.IsURLSaved(ctx, alice.ID, "https://example.com/x")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.IsURLSaved(ctx, "nobody", "https://example.com/x")
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestToggleBookmarkAlternates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")
	meta := domain.BookmarkMeta{Title: "Page"}

	res, err := s.ToggleBookmark(ctx, user.ID, "https://example.com/page", meta)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionSaved, res.Action)
	require.NotNil(t, res.Bookmark)

	res, err = s.ToggleBookmark(ctx, user.ID, "https://example.com/page/", meta)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUnsaved, res.Action)
	assert.Nil(t, res.Bookmark)

	res, err = s.ToggleBookmark(ctx, user.ID, "https://example.com/page#frag", meta)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionSaved, res.Action)
}

func TestToggleDeletesArchivedMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	b, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/a", Title: "a"})
	require.NoError(t, err)
	require.NoError(t, s.ArchiveBookmark(ctx, b.ID))

	res, err := s.ToggleBookmark(ctx, user.ID, "https://example.com/a", domain.BookmarkMeta{Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUnsaved, res.Action)

	_, err = s.GetBookmarkByID(ctx, b.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIsURLSavedIgnoresArchived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	b, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/a#x", Title: "a"})
	require.NoError(t, err)

	saved, err := s.IsURLSaved(ctx, user.ID, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, saved, "fragment-insensitive lookup should hit")

	require.NoError(t, s.ArchiveBookmark(ctx, b.ID))

	saved, err = s.IsURLSaved(ctx, user.ID, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, saved, "archived bookmarks do not count as saved")
}

func TestArchiveUnarchiveMovesBetweenLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	b, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/a", Title: "a"})
	require.NoError(t, err)

	require.NoError(t, s.ArchiveBookmark(ctx, b.ID))

	active, err := s.GetBookmarks(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := s.GetArchivedBookmarks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, b.ID, archived[0].ID)
	assert.NotNil(t, archived[0].ArchivedAt)

	require.NoError(t, s.UnarchiveBookmark(ctx, b.ID))

	active, err = s.GetBookmarks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Nil(t, active[0].ArchivedAt)

	archived, err = s.GetArchivedBookmarks(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestGetBookmarksNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for _, u := range urls {
		_, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: u, Title: u})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	active, err := s.GetBookmarks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "https://example.com/3", active[0].URL)
	assert.Equal(t, "https://example.com/1", active[2].URL)
}

func TestGetRecentBookmarksIncludesArchived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	first, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/1", Title: "1"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/2", Title: "2"})
	require.NoError(t, err)

	require.NoError(t, s.ArchiveBookmark(ctx, first.ID))

	recent, err := s.GetRecentBookmarks(ctx, user.ID, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2, "recent list spans archive state")

	recent, err = s.GetRecentBookmarks(ctx, user.ID, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "https://example.com/2", recent[0].URL)
}

func TestDeleteBookmark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, s, "a@example.com")

	b, err := s.CreateBookmark(ctx, user.ID, domain.CreateBookmarkInput{URL: "https://example.com/a", Title: "a"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteBookmark(ctx, b.ID))

	_, err = s.GetBookmarkByID(ctx, b.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Deleting an id that does not exist surfaces not-found, nothing else.
	err = s.DeleteBookmark(ctx, "does-not-exist")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestArchiveMissingBookmark(t *testing.T) {
	s := newTestStore(t)
	err := s.ArchiveBookmark(context.Background(), "nope")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("ArchiveBookmark on missing id = %v, want ErrNotFound", err)
	}
}
