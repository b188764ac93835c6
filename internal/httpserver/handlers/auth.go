package handlers

import (
	"net/http"
	"time"

	"github.com/sneyderangulo/readinglist/internal/auth"
	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/httpserver/deps"
)

type signUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"max=100"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SignUp creates an account and opens a session.
func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := decode(r, d.Validate, &req); err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		user, token, err := d.Auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		setSessionCookie(w, token, d.TokenTTL)
		writeOK(w, http.StatusCreated, sessionResponse{User: user, Token: token})
	}
}

// SignIn opens a session. The coordinator path warms the saved-URL cache on
// sign-in, the REST path leaves it to the first extension read.
func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := decode(r, d.Validate, &req); err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		user, token, err := d.Auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}

		setSessionCookie(w, token, d.TokenTTL)
		writeOK(w, http.StatusOK, sessionResponse{User: user, Token: token})
	}
}

// SignOut clears the cookie and the extension-side cache for the user.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := auth.UserIDFromContext(r.Context()); ok {
			d.Coordinator.SignOut(r.Context(), userID)
		}
		clearSessionCookie(w)
		writeOK(w, http.StatusOK, map[string]bool{"signedOut": true})
	}
}

// Me returns the signed-in user's session projection.
func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFromContext(r.Context())
		user, err := d.Auth.CurrentUser(r.Context(), userID)
		if err != nil {
			writeErr(w, d.Logger, err)
			return
		}
		writeOK(w, http.StatusOK, user)
	}
}
