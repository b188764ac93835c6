package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/httpserver/handlers"
)

// The metadata fetch on create can take a few seconds, so the budget here is
// wider than the auth routes'.
func init() { Register(registerBookmarks, middleware.Timeout(15*time.Second)) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Auth.Tokens()))

		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/archived", handlers.ListArchived(d))
		r.Get("/recent", handlers.ListRecent(d))
		r.Get("/saved", handlers.IsSaved(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Post("/toggle", handlers.ToggleBookmark(d))
		r.Post("/{id}/archive", handlers.ArchiveBookmark(d))
		r.Post("/{id}/unarchive", handlers.UnarchiveBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
