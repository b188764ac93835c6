package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/sneyderangulo/readinglist/internal/coordinator"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
)

// Extension is the websocket channel the browser extension keeps open. One
// message in, one envelope out. The connection authenticates either with a
// ?token= query parameter (browsers cannot set headers on websockets) or by
// sending a sign-in message, which upgrades the connection in place.
func Extension(d deps.Deps) http.HandlerFunc {
	patterns := originPatterns(d.AllowedOrigins)

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: patterns,
		})
		if err != nil {
			d.Logger.Warnf("websocket accept failed: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "connection dropped")

		userID := ""
		if token := r.URL.Query().Get("token"); token != "" {
			if id, err := d.Auth.Tokens().Validate(token); err == nil {
				userID = id
			} else {
				d.Logger.Debugf("websocket token rejected: %v", err)
			}
		}

		ctx := r.Context()
		for {
			var req coordinator.Request
			if err := wsjson.Read(ctx, conn, &req); err != nil {
				status := websocket.CloseStatus(err)
				if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
					conn.Close(websocket.StatusNormalClosure, "")
					return
				}
				d.Logger.Debugf("websocket read failed: %v", err)
				return
			}

			resp := d.Coordinator.HandleMessage(ctx, userID, req)

			// Session changes ride on the message flow.
			if resp.OK {
				switch req.Type {
				case coordinator.MsgSignInEmailPassword:
					if session, ok := resp.Payload.(coordinator.SessionPayload); ok {
						userID = session.User.UID
					}
				case coordinator.MsgSignOut:
					userID = ""
				}
			}

			if err := wsjson.Write(ctx, conn, resp); err != nil {
				d.Logger.Debugf("websocket write failed: %v", err)
				return
			}
		}
	}
}

// originPatterns converts configured origins into the host patterns the
// websocket library matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(strings.TrimSpace(o))
		if err != nil || u.Host == "" {
			patterns = append(patterns, o)
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
