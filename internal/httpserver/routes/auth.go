package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/httpserver/handlers"
	"github.com/sneyderangulo/readinglist/internal/httpserver/mw"
)

func init() { Register(registerAuth, middleware.Timeout(10*time.Second)) }

func registerAuth(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.AuthRateBurst,
		RefillPerIPPerMin: d.AuthRatePerMin,
		TrustProxy:        d.TrustProxy,
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(limit).Post("/signup", handlers.SignUp(d))
		r.With(limit).Post("/signin", handlers.SignIn(d))
		r.With(auth.OptionalAuth(d.Auth.Tokens())).Post("/signout", handlers.SignOut(d))
		r.With(auth.RequireAuth(d.Auth.Tokens())).Get("/me", handlers.Me(d))
	})
}
