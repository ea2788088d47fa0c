package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/auth/provider"
	"github.com/Hawaly/comptaStory/internal/auth/resolver"
	"github.com/Hawaly/comptaStory/internal/directory"
	"github.com/Hawaly/comptaStory/internal/logger"
	"github.com/Hawaly/comptaStory/internal/session"
)

const defaultSessionTTL = 24 * time.Hour

// Authenticator verifies login credentials and returns the directory
// user id. Satisfied by credentials.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (int, error)
}

type Handler struct {
	resolver     resolver.Resolver
	sessions     session.Store
	directory    directory.Store
	credentials  Authenticator
	providers    *provider.Registry
	sessionTTL   time.Duration
	cookieSecure bool
}

type Options struct {
	Resolver    resolver.Resolver
	Sessions    session.Store
	Directory   directory.Store
	Credentials Authenticator
	Providers   *provider.Registry

	// SessionTTL defaults to 24h when zero.
	SessionTTL   time.Duration
	CookieSecure bool
}

func NewHandler(opts Options) *Handler {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Handler{
		resolver:     opts.Resolver,
		sessions:     opts.Sessions,
		directory:    opts.Directory,
		credentials:  opts.Credentials,
		providers:    opts.Providers,
		sessionTTL:   ttl,
		cookieSecure: opts.CookieSecure,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/auth/session", h.Session)
	r.POST("/api/login", h.Login)
	r.POST("/api/logout", h.Logout)
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

// Session resolves the session cookie into the current user.
// GET /api/auth/session.
func (h *Handler) Session(c *gin.Context) {
	user, err := h.resolver.Resolve(c.Request.Context(), c.Request)
	if err != nil {
		if errors.Is(err, resolver.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"user": nil})
			return
		}
		logger.Error("session resolution failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success      bool       `json:"success"`
	User         *auth.User `json:"user,omitempty"`
	RedirectPath string     `json:"redirect_path,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Login verifies credentials, mints a session and returns the
// identity with its post-login destination.
// POST /api/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, loginResponse{
			Success: false,
			Error:   "invalid request",
		})
		return
	}

	userID, err := h.credentials.Authenticate(
		c.Request.Context(),
		req.Username,
		req.Password,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, loginResponse{
			Success: false,
			Error:   "invalid credentials",
		})
		return
	}

	rec, err := h.directory.ActiveUser(c.Request.Context(), userID)
	if err != nil {
		// The account just authenticated, so absence here means the
		// directory deactivated it mid-flight. Same rejection.
		if errors.Is(err, directory.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, loginResponse{
				Success: false,
				Error:   "invalid credentials",
			})
			return
		}
		logger.Error("login directory lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, loginResponse{
			Success: false,
			Error:   "internal error",
		})
		return
	}

	if err := h.issueSession(c, userID); err != nil {
		logger.Error("failed to mint session", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, loginResponse{
			Success: false,
			Error:   "session error",
		})
		return
	}

	logger.Info("login success", map[string]any{
		"user_id": userID,
		"role_id": rec.RoleID,
		"ip":      c.ClientIP(),
	})

	c.JSON(http.StatusOK, loginResponse{
		Success:      true,
		User:         resolver.Project(rec),
		RedirectPath: rec.RedirectPath,
	})
}

// Logout invalidates the session server-side and clears the cookie.
// Idempotent: repeating the call is always safe.
// POST /api/logout.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// best-effort: the cookie is cleared regardless
		if err := h.sessions.Delete(c.Request.Context(), cookie.Value); err != nil {
			logger.Warn("session delete failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}

// issueSession mints a session for userID and sets the cookie.
func (h *Handler) issueSession(c *gin.Context, userID int) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(h.sessionTTL)

	err = h.sessions.Create(c.Request.Context(), session.Session{
		SessionID: sessionID,
		UserID:    strconv.Itoa(userID),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}
