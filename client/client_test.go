package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hawaly/comptaStory/internal/auth"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) Navigate(path string) { n.paths = append(n.paths, path) }

func adminUser() *auth.User {
	return &auth.User{
		ID:       42,
		Email:    "admin@example.com",
		RoleCode: "admin",
		RoleName: "Administrateur",
		RoleID:   auth.RoleAdmin,
	}
}

func newTestContext(t *testing.T, handler http.Handler) (*Context, *recordingNav, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nav := &recordingNav{}
	c, err := New(srv.URL, nav)
	require.NoError(t, err)
	return c, nav, srv
}

func sessionEndpoint(status int, user *auth.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"user": user})
	})
}

func TestCheckSession_Success(t *testing.T) {
	c, _, _ := newTestContext(t, sessionEndpoint(http.StatusOK, adminUser()))

	require.True(t, c.State().IsLoading, "context starts loading")

	c.CheckSession(context.Background())

	s := c.State()
	assert.False(t, s.IsLoading)
	require.NotNil(t, s.User)
	assert.Equal(t, 42, s.User.ID)
	assert.True(t, s.IsAuthenticated())
}

func TestCheckSession_Unauthenticated(t *testing.T) {
	c, _, _ := newTestContext(t, sessionEndpoint(http.StatusUnauthorized, nil))

	c.CheckSession(context.Background())

	s := c.State()
	assert.False(t, s.IsLoading)
	assert.Nil(t, s.User)
	assert.False(t, s.IsAuthenticated())
}

func TestCheckSession_TransportFault_StillResolves(t *testing.T) {
	c, _, srv := newTestContext(t, sessionEndpoint(http.StatusOK, adminUser()))
	srv.Close() // every call now fails at the transport

	c.CheckSession(context.Background())

	s := c.State()
	assert.False(t, s.IsLoading, "loading must terminate even on transport error")
	assert.Nil(t, s.User)
}

func TestCheckSession_NotifiesSubscribers(t *testing.T) {
	c, _, _ := newTestContext(t, sessionEndpoint(http.StatusOK, adminUser()))

	var seen []State
	cancel := c.Subscribe(func(s State) { seen = append(seen, s) })
	defer cancel()

	c.CheckSession(context.Background())

	require.Len(t, seen, 1)
	assert.False(t, seen[0].IsLoading)
	assert.NotNil(t, seen[0].User)
}

func loginEndpoint(resp map[string]any, status int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})
	return mux
}

func TestLogin_SetsUserBeforeNavigation(t *testing.T) {
	c, _, _ := newTestContext(t, loginEndpoint(map[string]any{
		"success":       true,
		"user":          adminUser(),
		"redirect_path": "/client-portal",
	}, http.StatusOK))

	var userAtNavigate *auth.User
	var target string
	c.nav = NavigatorFunc(func(path string) {
		target = path
		userAtNavigate = c.State().User
	})

	result := c.Login(context.Background(), "admin@example.com", "s3cretpass")

	require.True(t, result.Success)
	assert.Equal(t, "/client-portal", target)
	require.NotNil(t, userAtNavigate, "identity must be visible before the route changes")
	assert.Equal(t, 42, userAtNavigate.ID)
}

func TestLogin_DefaultsToDashboard(t *testing.T) {
	c, nav, _ := newTestContext(t, loginEndpoint(map[string]any{
		"success": true,
		"user":    adminUser(),
	}, http.StatusOK))

	result := c.Login(context.Background(), "admin@example.com", "s3cretpass")

	require.True(t, result.Success)
	assert.Equal(t, []string{DefaultDashboardPath}, nav.paths)
}

func TestLogin_Rejected_LeavesStateUntouched(t *testing.T) {
	c, nav, _ := newTestContext(t, loginEndpoint(map[string]any{
		"success": false,
		"error":   "invalid credentials",
	}, http.StatusUnauthorized))

	result := c.Login(context.Background(), "admin@example.com", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "invalid credentials", result.Error)
	assert.Nil(t, c.State().User)
	assert.Empty(t, nav.paths, "no navigation on failure")
}

func TestLogin_TransportFault_ReturnsErrorValue(t *testing.T) {
	c, nav, srv := newTestContext(t, loginEndpoint(nil, http.StatusOK))
	srv.Close()

	result := c.Login(context.Background(), "admin@example.com", "s3cretpass")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, nav.paths)
}

func TestLogout_AlwaysClearsUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, nav, _ := newTestContext(t, mux)

	// simulate an authenticated state
	c.set(adminUser(), false)
	require.NotNil(t, c.State().User)

	c.Logout(context.Background())

	assert.Nil(t, c.State().User, "stale identity must never stay visible")
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestLogout_SurvivesTransportFault(t *testing.T) {
	c, nav, srv := newTestContext(t, http.NewServeMux())
	srv.Close()

	c.set(adminUser(), false)
	c.Logout(context.Background())

	assert.Nil(t, c.State().User)
	assert.Equal(t, []string{LoginPath}, nav.paths)
}

func TestAuthContextAccessor(t *testing.T) {
	c, _, _ := newTestContext(t, http.NewServeMux())

	ctx := WithAuth(context.Background(), c)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Same(t, c, MustFromContext(ctx))
}

func TestMustFromContext_PanicsOutOfScope(t *testing.T) {
	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}
