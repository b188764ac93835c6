package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/httpserver/handlers"
)

func init() { Register(registerReconcile) }

func registerReconcile(r chi.Router, d deps.Deps) {
	r.With(auth.RequireAuth(d.Auth.Tokens())).Post("/api/admin/reconcile", handlers.Reconcile(d))
}
