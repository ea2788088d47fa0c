package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/auth/credentials"
	"github.com/Hawaly/comptaStory/internal/auth/handler"
	"github.com/Hawaly/comptaStory/internal/auth/provider"
	"github.com/Hawaly/comptaStory/internal/auth/resolver"
	"github.com/Hawaly/comptaStory/internal/config"
	"github.com/Hawaly/comptaStory/internal/directory"
	"github.com/Hawaly/comptaStory/internal/middleware"
	"github.com/Hawaly/comptaStory/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	directoryStore := directory.NewPGStore(infra.DB)
	sessionResolver := resolver.NewSessionResolver(sessionStore, directoryStore)
	credentialService := credentials.NewService(infra.DB)

	var providers []provider.OAuthProvider
	if cfg.OIDC.Enabled() {
		ssoProvider, err := provider.NewOIDC(
			ctx,
			cfg.OIDC.Name,
			cfg.OIDC.Issuer,
			cfg.OIDC.ClientID,
			cfg.OIDC.ClientSecret,
			cfg.OIDC.RedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, ssoProvider)
	}

	authHandler := handler.NewHandler(handler.Options{
		Resolver:     sessionResolver,
		Sessions:     sessionStore,
		Directory:    directoryStore,
		Credentials:  credentialService,
		Providers:    provider.NewRegistry(providers...),
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	authMiddleware := middleware.NewAuthMiddleware(sessionResolver)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user": user})
	})

	admin := router.Group("/api/admin")
	admin.Use(middleware.GinRequireRole(authMiddleware, auth.RoleAdmin))

	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	portal := router.Group("/api/client")
	portal.Use(middleware.GinRequireRole(authMiddleware, auth.RoleClient))

	portal.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
