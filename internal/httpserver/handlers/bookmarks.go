package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
)

type createBookmarkRequest struct {
	URL         string `json:"url" validate:"required,url"`
	Title       string `json:"title" validate:"max=500"`
	Favicon     string `json:"favicon" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=2000"`
}

func (req createBookmarkRequest) input() domain.CreateBookmarkInput {
	return domain.CreateBookmarkInput{
		URL:         req.URL,
		Title:       req.Title,
		Favicon:     req.Favicon,
		Description: req.Description,
	}
}

// enrich fills missing display metadata from the page itself, best effort.
func enrich(d deps.Deps, r *http.Request, input domain.CreateBookmarkInput) domain.CreateBookmarkInput {
	if d.Metadata == nil || input.Title != "" {
		if input.Title == "" {
			input.Title = input.URL
		}
		return input
	}
	meta := d.Metadata.Fetch(r.Context(), input.URL)
	input.Title = meta.Title
	if input.Favicon == "" {
		input.Favicon = meta.Favicon
	}
	if input.Description == "" {
		input.Description = meta.Description
	}
	return input
}

// ListBookmarks returns the active list, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		bookmarks, err := d.Store.GetBookmarks(r.Context(), userID)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, bookmarks)
	}
}

// ListArchived returns the archived list.
func ListArchived(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		bookmarks, err := d.Store.GetArchivedBookmarks(r.Context(), userID)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, bookmarks)
	}
}

// ListRecent returns the most recent bookmarks regardless of archive state.
func ListRecent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())

		limit := d.RecentLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 100 {
				writeErr(w, d.Logger, apperror.Validation("limit", "limit must be between 1 and 100"))
				return
			}
			limit = n
		}

		bookmarks, err := d.Store.GetRecentBookmarks(r.Context(), userID, limit)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, bookmarks)
	}
}

// IsSaved reports whether the user has an active bookmark for the URL.
func IsSaved(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())

		rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
		if rawURL == "" {
			writeErr(w, d.Logger, apperror.Validation("url", "url query parameter is required"))
			return
		}

		saved, err := d.Store.IsURLSaved(r.Context(), userID, rawURL)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, map[string]bool{"saved": saved})
	}
}

// CreateBookmark saves a URL. Saving the same URL twice returns the existing
// bookmark with 200 instead of 201.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())

		var req createBookmarkRequest
		if err := decode(r, d.Validate, &req); err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		input := enrich(d, r, req.input())

		already, err := d.Store.IsURLSaved(r.Context(), userID, input.URL)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		bookmark, err := d.Store.CreateBookmark(r.Context(), userID, input)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		d.Coordinator.NotifySaved(r.Context(), userID, bookmark.URL)

		status := http.StatusCreated
		if already {
			status = http.StatusOK
		}
		writeOK(w, status, bookmark)
	}
}

// ToggleBookmark saves or unsaves a URL, keeping the extension cache in sync.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())

		var req createBookmarkRequest
		if err := decode(r, d.Validate, &req); err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		result, err := d.Coordinator.Toggle(r.Context(), userID, enrich(d, r, req.input()))
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, result)
	}
}

// requireOwned loads the bookmark and hides other users' rows behind a 404.
func requireOwned(r *http.Request, d deps.Deps, id string) (*domain.Bookmark, error) {
	userID, _ := auth.UserIDFromContext(r.Context())
	bookmark, err := d.Store.GetBookmarkByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if bookmark.UserID != userID {
		return nil, apperror.NotFound("bookmark", id)
	}
	return bookmark, nil
}

// GetBookmark returns a single bookmark by id.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookmark, err := requireOwned(r, d, chi.URLParam(r, "id"))
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, bookmark)
	}
}

// ArchiveBookmark moves a bookmark to the archive.
func ArchiveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bookmark, err := requireOwned(r, d, id)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		if err := d.Store.ArchiveBookmark(r.Context(), id); err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		d.Coordinator.NotifyUnsaved(r.Context(), bookmark.UserID, bookmark.URL)
		writeOK(w, http.StatusOK, map[string]bool{"archived": true})
	}
}

// UnarchiveBookmark restores a bookmark to the active list.
func UnarchiveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bookmark, err := requireOwned(r, d, id)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		if err := d.Store.UnarchiveBookmark(r.Context(), id); err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		d.Coordinator.NotifySaved(r.Context(), bookmark.UserID, bookmark.URL)
		writeOK(w, http.StatusOK, map[string]bool{"unarchived": true})
	}
}

// DeleteBookmark permanently removes a bookmark. The coordinator path also
// rebuilds the extension cache.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		id := chi.URLParam(r, "id")

		if err := d.Coordinator.Delete(r.Context(), userID, id); err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
