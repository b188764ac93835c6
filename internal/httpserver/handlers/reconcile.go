package handlers

import (
	"net/http"

	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
	"github.com/sneyderangulo/readinglist/internal/logger"
)

// Reconcile kicks an immediate saved-URL cache rebuild pass instead of
// waiting for the reconciler's next tick.
func Reconcile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReconcileTrigger <- struct{}{}:
			d.Logger.Info("manual cache reconcile triggered",
				logger.String("remote_ip", r.RemoteAddr))
			writeOK(w, http.StatusAccepted, map[string]bool{"triggered": true})
		default:
			d.Logger.Warn("cache reconcile already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"error":"reconcile already in progress"}`))
		}
	}
}
