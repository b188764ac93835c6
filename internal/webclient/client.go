package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/domain"
	"github.com/sneyderangulo/readinglist/internal/utils"
)

// Client talks to the REST API. A zero token means anonymous, which only the
// auth endpoints accept.
type Client struct {
	base  string
	http  *http.Client
	token string
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken attaches the session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	OK      bool            `json:"ok"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.OK {
		return apiError(resp.StatusCode, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(env.Payload, out); err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}
	}
	return nil
}

// apiError maps a failed response onto the domain error taxonomy so callers
// can errors.Is against the usual sentinels.
func apiError(status int, msg string) error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch status {
	case http.StatusNotFound:
		return &apperror.Error{Err: apperror.ErrNotFound, Message: msg}
	case http.StatusUnauthorized:
		return &apperror.Error{Err: apperror.ErrUnauthorized, Message: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &apperror.Error{Err: apperror.ErrValidation, Message: msg}
	case http.StatusConflict:
		return &apperror.Error{Err: apperror.ErrConflict, Message: msg}
	default:
		return fmt.Errorf("api error (%d): %s", status, msg)
	}
}

type sessionResponse struct {
	User  domain.AuthUser `json:"user"`
	Token string          `json:"token"`
}

// SignIn authenticates and stores the returned token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.AuthUser, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signin", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return domain.AuthUser{}, err
	}
	c.token = out.Token
	return out.User, nil
}

// SignUp creates an account and stores the returned token on the client.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (domain.AuthUser, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": email, "password": password, "displayName": displayName,
	}, &out)
	if err != nil {
		return domain.AuthUser{}, err
	}
	c.token = out.Token
	return out.User, nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (domain.AuthUser, error) {
	var out domain.AuthUser
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

// ListBookmarks returns the active list, newest first.
func (c *Client) ListBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	var out []*domain.Bookmark
	err := c.do(ctx, http.MethodGet, "/api/bookmarks", nil, &out)
	return out, err
}

// ListArchived returns the archived list.
func (c *Client) ListArchived(ctx context.Context) ([]*domain.Bookmark, error) {
	var out []*domain.Bookmark
	err := c.do(ctx, http.MethodGet, "/api/bookmarks/archived", nil, &out)
	return out, err
}

// ListRecent returns the most recent bookmarks regardless of archive state.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]*domain.Bookmark, error) {
	path := "/api/bookmarks/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []*domain.Bookmark
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// IsURLSaved asks the server whether the URL has an active bookmark.
func (c *Client) IsURLSaved(ctx context.Context, rawURL string) (bool, error) {
	var out struct {
		Saved bool `json:"saved"`
	}
	err := c.do(ctx, http.MethodGet, "/api/bookmarks/saved?url="+url.QueryEscape(rawURL), nil, &out)
	return out.Saved, err
}

// CreateBookmark saves a URL, returning the new or existing bookmark.
func (c *Client) CreateBookmark(ctx context.Context, input domain.CreateBookmarkInput) (*domain.Bookmark, error) {
	var out domain.Bookmark
	err := c.do(ctx, http.MethodPost, "/api/bookmarks", input, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleBookmark saves or unsaves a URL.
func (c *Client) ToggleBookmark(ctx context.Context, input domain.CreateBookmarkInput) (*domain.ToggleResult, error) {
	var out domain.ToggleResult
	err := c.do(ctx, http.MethodPost, "/api/bookmarks/toggle", input, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ArchiveBookmark moves a bookmark to the archive.
func (c *Client) ArchiveBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/bookmarks/"+id+"/archive", nil, nil)
}

// UnarchiveBookmark restores a bookmark to the active list.
func (c *Client) UnarchiveBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/bookmarks/"+id+"/unarchive", nil, nil)
}

// DeleteBookmark permanently removes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/bookmarks/"+id, nil, nil)
}
