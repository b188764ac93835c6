package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/httpserver/handlers"
)

func init() { Register(registerExtension) }

func registerExtension(r chi.Router, d deps.Deps) {
	r.Get("/api/extension/ws", handlers.Extension(d))
}
