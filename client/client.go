// Package client is the in-process counterpart to the portal's auth
// endpoints: a single owned state container holding the current user,
// boundary calls for session bootstrap, login and logout, and role
// gates deciding navigation. The session cookie itself stays opaque;
// it lives in the http.Client's jar and is never read directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"

	"github.com/Hawaly/comptaStory/internal/auth"
)

const (
	LoginPath            = "/login"
	DefaultDashboardPath = "/dashboard"
	ClientPortalPath     = "/client-portal"
)

// Navigator performs route changes on behalf of the context and the
// gates. UI layers plug their router in here.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// State is an immutable snapshot of the auth state. User is nil until
// a resolution succeeds; IsLoading is true from construction until the
// first resolution attempt completes.
type State struct {
	User      *auth.User
	IsLoading bool
}

// IsAuthenticated is derived, never stored.
func (s State) IsAuthenticated() bool { return s.User != nil }

// LoginResult reports a login attempt. Failures are values, not
// errors: rejected credentials and transport faults both land here.
type LoginResult struct {
	Success bool
	Error   string
}

// Context owns the auth state for one client session. All state
// transitions are serialized under one mutex; overlapping boundary
// calls resolve last-write-wins.
type Context struct {
	baseURL string
	http    *http.Client
	nav     Navigator

	mu        sync.Mutex
	user      *auth.User
	loading   bool
	nextWatch int
	watchers  map[int]func(State)
}

// New builds a Context talking to the auth endpoints under baseURL.
// The HTTP client gets its own cookie jar so the session cookie
// survives across boundary calls.
func New(baseURL string, nav Navigator) (*Context, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Context{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Jar: jar},
		nav:      nav,
		loading:  true,
		watchers: make(map[int]func(State)),
	}, nil
}

// State returns the current snapshot.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{User: c.user, IsLoading: c.loading}
}

// Subscribe registers fn to run after every state transition and
// returns a cancel func. fn runs outside the state lock.
func (c *Context) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextWatch
	c.nextWatch++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// set installs a new state atomically and notifies watchers. The user
// is always replaced wholesale, never patched.
func (c *Context) set(user *auth.User, loading bool) {
	c.mu.Lock()
	c.user = user
	c.loading = loading
	snapshot := State{User: user, IsLoading: loading}
	watchers := make([]func(State), 0, len(c.watchers))
	for _, fn := range c.watchers {
		watchers = append(watchers, fn)
	}
	c.mu.Unlock()

	for _, fn := range watchers {
		fn(snapshot)
	}
}

// CheckSession bootstraps the auth state from the session endpoint.
// Whatever happens, the loading flag terminates exactly once per call:
// success, absence and transport error all count as resolved.
func (c *Context) CheckSession(ctx context.Context) {
	var user *auth.User
	defer func() { c.set(user, false) }()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/api/auth/session",
		nil,
	)
	if err != nil {
		return
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// transport faults resolve to unauthenticated
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var body struct {
		User *auth.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return
	}

	user = body.User
}

// Login submits credentials. On success the new identity is installed
// strictly before navigation to the server-supplied redirect path
// (falling back to the dashboard). Failures leave the state untouched.
func (c *Context) Login(ctx context.Context, email, password string) LoginResult {
	payload, err := json.Marshal(map[string]string{
		"username": email,
		"password": password,
	})
	if err != nil {
		return LoginResult{Success: false, Error: "login failed"}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/login",
		bytes.NewReader(payload),
	)
	if err != nil {
		return LoginResult{Success: false, Error: "login failed"}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return LoginResult{Success: false, Error: "connection failed"}
	}
	defer resp.Body.Close()

	var body struct {
		Success      bool       `json:"success"`
		User         *auth.User `json:"user"`
		RedirectPath string     `json:"redirect_path"`
		Error        string     `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LoginResult{Success: false, Error: "connection failed"}
	}

	if resp.StatusCode != http.StatusOK || !body.Success {
		msg := body.Error
		if msg == "" {
			msg = "login failed"
		}
		return LoginResult{Success: false, Error: msg}
	}

	// state first, navigation second: observers of the new identity
	// must see it before the route changes
	c.set(body.User, false)

	path := body.RedirectPath
	if path == "" {
		path = DefaultDashboardPath
	}
	c.nav.Navigate(path)

	return LoginResult{Success: true}
}

// Logout requests server-side invalidation, then unconditionally
// clears the local identity and returns to the login page. Safe to
// retry; stale identity is never left visible.
func (c *Context) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/logout",
		nil,
	)
	if err == nil {
		if resp, doErr := c.http.Do(req); doErr == nil {
			resp.Body.Close()
		}
	}

	c.set(nil, false)
	c.nav.Navigate(LoginPath)
}
