package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/auth/provider"
	"github.com/Hawaly/comptaStory/internal/auth/resolver"
	"github.com/Hawaly/comptaStory/internal/directory"
	"github.com/Hawaly/comptaStory/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	user *auth.User
	err  error
}

func (f *fakeResolver) Resolve(_ context.Context, _ *http.Request) (*auth.User, error) {
	return f.user, f.err
}

type fakeSessionStore struct {
	created   []session.Session
	createErr error
	deleted   []string
	deleteErr error
}

func (f *fakeSessionStore) Create(_ context.Context, s session.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, _ string) (*session.Session, error) {
	return nil, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

type fakeDirectory struct {
	rec *directory.Record
	err error
}

func (f *fakeDirectory) ActiveUser(_ context.Context, _ int) (*directory.Record, error) {
	return f.rec, f.err
}

func (f *fakeDirectory) ActiveUserByEmail(_ context.Context, _ string) (*directory.Record, error) {
	return f.rec, f.err
}

type fakeAuthenticator struct {
	userID int
	err    error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _, _ string) (int, error) {
	return f.userID, f.err
}

func clientRecord() *directory.Record {
	return &directory.Record{
		UserID:       42,
		Email:        "user@example.com",
		RoleID:       2,
		RoleCode:     "client",
		RoleName:     "Client",
		RedirectPath: "/client-portal",
	}
}

func newRouter(opts Options) *gin.Engine {
	if opts.Providers == nil {
		opts.Providers = provider.NewRegistry()
	}
	r := gin.New()
	NewHandler(opts).RegisterRoutes(r)
	return r
}

func TestSession_Authenticated(t *testing.T) {
	r := newRouter(Options{
		Resolver: &fakeResolver{user: &auth.User{
			ID: 42, Email: "admin@example.com", RoleID: auth.RoleAdmin,
		}},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		User *auth.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.User)
	assert.Equal(t, 42, body.User.ID)
	assert.Equal(t, auth.RoleAdmin, body.User.RoleID)
}

func TestSession_NoSession(t *testing.T) {
	r := newRouter(Options{
		Resolver: &fakeResolver{err: resolver.ErrNoSession},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
}

func TestSession_TransportFault(t *testing.T) {
	r := newRouter(Options{
		Resolver: &fakeResolver{err: errors.New("pq: connection reset")},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"user":null}`, w.Body.String())
}

func loginRequestBody(t *testing.T) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"username": "user@example.com",
		"password": "s3cretpass",
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestLogin_Success(t *testing.T) {
	sessions := &fakeSessionStore{}
	r := newRouter(Options{
		Sessions:    sessions,
		Directory:   &fakeDirectory{rec: clientRecord()},
		Credentials: &fakeAuthenticator{userID: 42},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", loginRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success      bool       `json:"success"`
		User         *auth.User `json:"user"`
		RedirectPath string     `json:"redirect_path"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.User)
	assert.Equal(t, auth.RoleClient, body.User.RoleID)
	assert.Equal(t, "/client-portal", body.RedirectPath)

	// session minted for the authenticated user
	require.Len(t, sessions.created, 1)
	assert.Equal(t, "42", sessions.created[0].UserID)

	// session cookie issued
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			found = true
			assert.Equal(t, sessions.created[0].SessionID, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie must be set")
}

func TestLogin_Rejected(t *testing.T) {
	sessions := &fakeSessionStore{}
	r := newRouter(Options{
		Sessions:    sessions,
		Directory:   &fakeDirectory{rec: clientRecord()},
		Credentials: &fakeAuthenticator{err: errors.New("invalid credentials")},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", loginRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"invalid credentials"}`, w.Body.String())
	assert.Empty(t, sessions.created)
}

func TestLogin_SessionStoreFailure(t *testing.T) {
	r := newRouter(Options{
		Sessions:    &fakeSessionStore{createErr: errors.New("redis down")},
		Directory:   &fakeDirectory{rec: clientRecord()},
		Credentials: &fakeAuthenticator{userID: 42},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", loginRequestBody(t))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout_DeletesSessionAndClearsCookie(t *testing.T) {
	sessions := &fakeSessionStore{}
	r := newRouter(Options{Sessions: sessions})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"sid-1"}, sessions.deleted)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_IdempotentOnStoreFailure(t *testing.T) {
	sessions := &fakeSessionStore{deleteErr: errors.New("redis down")}
	r := newRouter(Options{Sessions: sessions})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "sid-1"})
	r.ServeHTTP(w, req)

	// cookie is cleared no matter what the store said
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotEmpty(t, w.Result().Cookies())
	assert.Empty(t, w.Result().Cookies()[0].Value)
}

func TestLogout_WithoutCookie(t *testing.T) {
	sessions := &fakeSessionStore{}
	r := newRouter(Options{Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, sessions.deleted)
}
