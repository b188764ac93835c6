package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the web app and the extension origins to call the API with
// credentials. Extension pages carry chrome-extension:// origins, so the
// list has to be explicit rather than a wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
