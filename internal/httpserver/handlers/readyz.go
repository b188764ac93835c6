package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool              `json:"ready"`
	Deps  map[string]string `json:"deps"`
}

// Readyz checks the dependencies that serve requests: the database always,
// Redis only when cache persistence uses it.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		ready := true

		if err := d.Store.Ping(ctx); err != nil {
			status["sqlite"] = err.Error()
			ready = false
		} else {
			status["sqlite"] = "ok"
		}

		if d.RedisClient != nil {
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				status["redis"] = err.Error()
				ready = false
			} else {
				status["redis"] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready, Deps: status})
	}
}
