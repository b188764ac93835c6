package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/domain"
)

const bookmarkColumns = `id, user_id, url, normalized_url, title, favicon, description, created_at, archived_at`

func scanBookmark(row interface{ Scan(...any) error }) (*domain.Bookmark, error) {
	var b domain.Bookmark
	var archivedAt sql.NullTime
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&b.NormalizedURL,
		&b.Title,
		&b.Favicon,
		&b.Description,
		&b.CreatedAt,
		&archivedAt,
	)
	if err != nil {
		return nil, err
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		b.ArchivedAt = &t
	}
	return &b, nil
}

func (s *Store) queryBookmarks(ctx context.Context, query string, args ...any) ([]*domain.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := make([]*domain.Bookmark, 0, 16)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// GetBookmarks returns the user's active bookmarks, newest first.
func (s *Store) GetBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	bookmarks, err := s.queryBookmarks(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = ? AND archived_at IS NULL
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// GetArchivedBookmarks returns the user's archived bookmarks, most recently
// archived first.
func (s *Store) GetArchivedBookmarks(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	bookmarks, err := s.queryBookmarks(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = ? AND archived_at IS NOT NULL
		 ORDER BY archived_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived bookmarks: %w", err)
	}
	return bookmarks, nil
}

// GetRecentBookmarks returns the user's most recent bookmarks regardless of
// archive state.
func (s *Store) GetRecentBookmarks(ctx context.Context, userID string, limit int) ([]*domain.Bookmark, error) {
	if limit <= 0 {
		limit = 10
	}
	bookmarks, err := s.queryBookmarks(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bookmarks: %w", err)
	}
	return bookmarks, nil
}

// IsURLSaved reports whether the user has an active bookmark for the URL.
// Archived bookmarks do not count as saved.
func (s *Store) IsURLSaved(ctx context.Context, userID, url string) (bool, error) {
	normalized := domain.NormalizeURL(url)

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM bookmarks
			WHERE user_id = ? AND normalized_url = ? AND archived_at IS NULL
		)`, userID, normalized).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check saved url: %w", err)
	}
	return exists, nil
}

// CreateBookmark saves a URL for the user. The existence check and the
// insert ride the unique (user_id, normalized_url) key, so two concurrent
// saves of the same page cannot produce duplicates: the loser of the race
// gets the winner's row back. Calling it again with the same URL returns the
// existing bookmark unchanged.
func (s *Store) CreateBookmark(ctx context.Context, userID string, input domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	normalized := domain.NormalizeURL(input.URL)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (id, user_id, url, normalized_url, title, favicon, description, created_at, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
		 ON CONFLICT(user_id, normalized_url) DO NOTHING`,
		xid.New().String(),
		userID,
		input.URL,
		normalized,
		input.Title,
		input.Favicon,
		input.Description,
		time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	bookmark, err := s.getByNormalizedURL(ctx, s.db, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to read back bookmark: %w", err)
	}
	return bookmark, nil
}

// ToggleBookmark saves the URL if the user has no bookmark for it, and
// deletes the existing bookmark otherwise. The lookup and the mutation run
// in one transaction. An archived match is deleted like any other: with the
// uniqueness key in place it would otherwise block the URL from ever being
// saved again.
func (s *Store) ToggleBookmark(ctx context.Context, userID, url string, meta domain.BookmarkMeta) (*domain.ToggleResult, error) {
	normalized := domain.NormalizeURL(url)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin toggle: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.getByNormalizedURL(ctx, tx, userID, normalized)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up bookmark: %w", err)
	}

	if existing != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete bookmark: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit toggle: %w", err)
		}
		return &domain.ToggleResult{Action: domain.ActionUnsaved, Bookmark: nil}, nil
	}

	b := &domain.Bookmark{
		ID:            xid.New().String(),
		UserID:        userID,
		URL:           url,
		NormalizedURL: normalized,
		Title:         meta.Title,
		Favicon:       meta.Favicon,
		Description:   meta.Description,
		CreatedAt:     time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookmarks (id, user_id, url, normalized_url, title, favicon, description, created_at, archived_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		b.ID, b.UserID, b.URL, b.NormalizedURL, b.Title, b.Favicon, b.Description, b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return &domain.ToggleResult{Action: domain.ActionSaved, Bookmark: b}, nil
}

// ArchiveBookmark moves a bookmark to the archive.
func (s *Store) ArchiveBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET archived_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to archive bookmark: %w", err)
	}
	return requireRow(res, "bookmark", id)
}

// UnarchiveBookmark restores a bookmark to the active list.
func (s *Store) UnarchiveBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET archived_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to unarchive bookmark: %w", err)
	}
	return requireRow(res, "bookmark", id)
}

// DeleteBookmark permanently removes a bookmark.
func (s *Store) DeleteBookmark(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return requireRow(res, "bookmark", id)
}

// GetBookmarkByID retrieves a single bookmark.
func (s *Store) GetBookmarkByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("bookmark", id)
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}
	return b, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getByNormalizedURL(ctx context.Context, q querier, userID, normalized string) (*domain.Bookmark, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks
		 WHERE user_id = ? AND normalized_url = ?
		 LIMIT 1`, userID, normalized)
	return scanBookmark(row)
}

func requireRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
