package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/domain"
)

// Message tags the extension sends over the channel.
const (
	MsgGetPopupState       = "GET_POPUP_STATE"
	MsgToggleCurrentTab    = "TOGGLE_CURRENT_TAB"
	MsgDeleteBookmark      = "DELETE_BOOKMARK"
	MsgSignInEmailPassword = "SIGN_IN_EMAIL_PASSWORD"
	MsgSignOut             = "SIGN_OUT"
	MsgOpenWebApp          = "OPEN_WEB_APP"
)

// Request is the envelope the extension sends.
type Request struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope sent back. Exactly one of Payload and Error is
// set, keyed by OK.
type Response struct {
	OK      bool   `json:"ok"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func okResponse(payload any) Response {
	return Response{OK: true, Payload: payload}
}

func errResponse(msg string) Response {
	return Response{OK: false, Error: msg}
}

type tabPayload struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	TabID       int    `json:"tabId,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Description string `json:"description,omitempty"`
}

type deletePayload struct {
	ID string `json:"id"`
}

type openPayload struct {
	Path string `json:"path,omitempty"`
}

type signInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionPayload is the sign-in response. The websocket handler reads the
// token back out of it to upgrade the connection.
type SessionPayload struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

// HandleMessage dispatches one extension message. It never panics across the
// channel boundary: a handler failure becomes an error envelope. ownerID is
// empty for unauthenticated connections, which may only sign in.
func (c *Coordinator) HandleMessage(ctx context.Context, ownerID string, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("message handler panic on %s: %v", req.Type, r)
			resp = errResponse("internal error")
		}
	}()

	// Popup state, sign-in and open-web-app work without a session: the
	// popup has to render its signed-out UI from something.
	switch req.Type {
	case MsgSignInEmailPassword:
		return c.handleSignIn(ctx, req.Payload)
	case MsgOpenWebApp:
		return c.handleOpenWebApp(req.Payload)
	case MsgGetPopupState:
		return c.handlePopupState(ctx, ownerID, req.Payload)
	}

	if ownerID == "" {
		return errResponse("valid session required")
	}

	switch req.Type {
	case MsgToggleCurrentTab:
		return c.handleToggle(ctx, ownerID, req.Payload)
	case MsgDeleteBookmark:
		return c.handleDelete(ctx, ownerID, req.Payload)
	case MsgSignOut:
		c.SignOut(ctx, ownerID)
		return okResponse(map[string]bool{"signedOut": true})
	default:
		return errResponse("unknown message type: " + req.Type)
	}
}

func (c *Coordinator) handlePopupState(ctx context.Context, ownerID string, raw json.RawMessage) Response {
	var tab tabPayload
	if err := json.Unmarshal(raw, &tab); err != nil {
		return errResponse("malformed payload")
	}
	if tab.URL == "" {
		return errResponse("tab url is required")
	}

	state, err := c.CurrentState(ctx, ownerID, tab.URL, tab.TabID)
	if err != nil {
		return c.errFrom(err)
	}
	return okResponse(state)
}

func (c *Coordinator) handleToggle(ctx context.Context, ownerID string, raw json.RawMessage) Response {
	var tab tabPayload
	if err := json.Unmarshal(raw, &tab); err != nil {
		return errResponse("malformed payload")
	}
	if tab.URL == "" {
		return errResponse("tab url is required")
	}

	result, err := c.Toggle(ctx, ownerID, domain.CreateBookmarkInput{
		URL:         tab.URL,
		Title:       tab.Title,
		Favicon:     tab.Favicon,
		Description: tab.Description,
	})
	if err != nil {
		return c.errFrom(err)
	}
	return okResponse(result)
}

func (c *Coordinator) handleDelete(ctx context.Context, ownerID string, raw json.RawMessage) Response {
	var payload deletePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errResponse("malformed payload")
	}
	if payload.ID == "" {
		return errResponse("bookmark id is required")
	}

	if err := c.Delete(ctx, ownerID, payload.ID); err != nil {
		return c.errFrom(err)
	}
	return okResponse(map[string]bool{"deleted": true})
}

// handleOpenWebApp resolves an optional path against the web app base URL.
// The extension opens the returned URL in a new tab.
func (c *Coordinator) handleOpenWebApp(raw json.RawMessage) Response {
	target := c.webAppURL
	if len(raw) > 0 {
		var payload openPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errResponse("malformed payload")
		}
		if payload.Path != "" {
			joined, err := url.JoinPath(c.webAppURL, payload.Path)
			if err != nil {
				return errResponse("invalid path")
			}
			target = joined
		}
	}
	return okResponse(map[string]string{"url": target})
}

func (c *Coordinator) handleSignIn(ctx context.Context, raw json.RawMessage) Response {
	var creds signInPayload
	if err := json.Unmarshal(raw, &creds); err != nil {
		return errResponse("malformed payload")
	}

	user, token, err := c.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return c.errFrom(err)
	}
	return okResponse(SessionPayload{User: user, Token: token})
}

// errFrom maps domain errors to user-facing messages. Anything unexpected is
// logged and reported as an opaque internal error.
func (c *Coordinator) errFrom(err error) Response {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return errResponse(appErr.Message)
	}
	c.log.Errorf("message handler failed: %v", err)
	return errResponse("internal error")
}
