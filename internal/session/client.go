package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"

	"github.com/chattalk/talk-cli/internal/api"
	"github.com/chattalk/talk-cli/internal/localstore"
)

// Client tracks the authenticated identity for this process: an opaque
// backend token plus the cached user profile. Both live in memory and in
// the local store, so a restarted process resumes its session without
// asking for credentials again.
type Client struct {
	store    *localstore.Store
	api      *api.Client
	token    string
	user     *api.User
	onChange func(authenticated bool, user *api.User)
}

// Result is the backend's auth envelope. The server answers HTTP 200 for
// declared failures too, so Success is the only reliable signal.
type Result struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	User    *api.User `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Token string `json:"token"`
}

// NewClient restores any persisted session from the store. The restored
// token is unverified; callers should confirm it with VerifyAuth.
func NewClient(store *localstore.Store, apiClient *api.Client) *Client {
	c := &Client{store: store, api: apiClient}
	c.restore()
	return c
}

// OnChange registers the single listener fired on every auth transition.
func (c *Client) OnChange(fn func(authenticated bool, user *api.User)) {
	c.onChange = fn
}

// IsAuthenticated requires both the token and the profile; holding only
// one of them counts as anonymous.
func (c *Client) IsAuthenticated() bool {
	return c.token != "" && c.user != nil
}

func (c *Client) Token() string { return c.token }

// User returns the cached profile, nil when anonymous.
func (c *Client) User() *api.User { return c.user }

// Register creates the account and, when the backend declares success,
// logs straight in with the same credentials. Registration alone never
// yields a token.
func (c *Client) Register(ctx context.Context, username, email, password string) Result {
	body := registerRequest{Username: username, Email: email, Password: password}
	var res Result
	if err := c.api.Post(ctx, "/api/auth/register", nil, body, &res); err != nil {
		return failureResult(err)
	}
	if !res.Success {
		return res
	}
	return c.Login(ctx, username, password)
}

// Login authenticates and persists the session. Transport errors come
// back as a failure envelope, never as a raw error.
func (c *Client) Login(ctx context.Context, username, password string) Result {
	body := loginRequest{Username: username, Password: password}
	var res Result
	if err := c.api.Post(ctx, "/api/auth/login", nil, body, &res); err != nil {
		return failureResult(err)
	}
	if !res.Success || res.Token == "" || res.User == nil {
		res.Success = false
		return res
	}

	c.token = res.Token
	c.user = res.User
	if err := c.store.Set(localstore.KeyToken, res.Token); err != nil {
		slog.Debug("token persist failed", "error", err)
	}
	c.persistUser(res.User)
	c.notify()
	return res
}

// Logout tells the backend to drop the token, then clears local state no
// matter what the backend said. Ending the session is a client-side
// guarantee, so the returned result is always a success.
func (c *Client) Logout(ctx context.Context) Result {
	if c.token != "" {
		body := logoutRequest{Token: c.token}
		if err := c.api.Post(ctx, "/api/auth/logout", nil, body, nil); err != nil {
			slog.Debug("logout request failed", "error", err)
		}
	}
	c.clear()
	return Result{Success: true, Message: "Logged out"}
}

// VerifyAuth re-checks the held token against the backend and refreshes
// the cached profile. Any failure ends the session: an unreachable
// server is treated the same as a revoked token.
func (c *Client) VerifyAuth(ctx context.Context) bool {
	if c.token == "" {
		return false
	}

	q := url.Values{}
	q.Set("token", c.token)
	var res Result
	if err := c.api.Get(ctx, "/api/auth/me", q, &res); err != nil || !res.Success || res.User == nil {
		if err != nil {
			slog.Debug("auth verification failed", "error", err)
		}
		c.Logout(ctx)
		return false
	}

	c.user = res.User
	c.persistUser(res.User)
	c.notify()
	return true
}

func (c *Client) restore() {
	token, err := c.store.Get(localstore.KeyToken)
	if err != nil || token == "" {
		return
	}
	raw, err := c.store.Get(localstore.KeyUser)
	if err != nil {
		return
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Debug("cached user unreadable, dropping session", "error", err)
		c.store.Delete(localstore.KeyToken)
		c.store.Delete(localstore.KeyUser)
		return
	}
	c.token = token
	c.user = &user
}

func (c *Client) persistUser(user *api.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		slog.Debug("user serialize failed", "error", err)
		return
	}
	if err := c.store.Set(localstore.KeyUser, string(raw)); err != nil {
		slog.Debug("user persist failed", "error", err)
	}
}

func (c *Client) clear() {
	c.token = ""
	c.user = nil
	if err := c.store.Delete(localstore.KeyToken); err != nil {
		slog.Debug("token delete failed", "error", err)
	}
	if err := c.store.Delete(localstore.KeyUser); err != nil {
		slog.Debug("user delete failed", "error", err)
	}
	c.notify()
}

func (c *Client) notify() {
	if c.onChange != nil {
		c.onChange(c.IsAuthenticated(), c.user)
	}
}

// failureResult folds a transport or HTTP-level error into the backend's
// envelope shape so callers only ever handle one form.
func failureResult(err error) Result {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return Result{Success: false, Error: apiErr.Message}
	}
	return Result{Success: false, Error: "cannot reach server: " + err.Error()}
}
