package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hawaly/comptaStory/internal/directory"
	"github.com/Hawaly/comptaStory/internal/logger"
)

// oauthLogin starts the SSO flow for a registered provider.
// GET /oauth/login/:provider.
func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

// oauthCallback completes the SSO flow: the verified email must match
// an active directory record. No account is ever created here; the
// directory is provisioned out of band.
// GET /oauth/callback/:provider.
func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		// Denied consent is not authentication; start over.
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	rec, err := h.directory.ActiveUserByEmail(c.Request.Context(), identity.Email)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			logger.Warn("sso identity has no active directory record", map[string]any{
				"provider": providerName,
			})
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "no active account",
			})
			return
		}
		logger.Error("sso directory lookup failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to resolve user",
		})
		return
	}

	if err := h.issueSession(c, rec.UserID); err != nil {
		logger.Error("failed to mint session", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	logger.Info("sso login success", map[string]any{
		"user_id":  rec.UserID,
		"provider": providerName,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, rec.RedirectPath)
}
