package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Hawaly/comptaStory/internal/auth"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin. Auth
// decisions stay session-based and provider-agnostic.
func GinRequireAuth(a *AuthMiddleware) gin.HandlerFunc {
	return bridge(func(next http.Handler) http.Handler {
		return a.RequireAuth(next)
	})
}

// GinRequireRole adapts RequireRole to Gin.
func GinRequireRole(a *AuthMiddleware, role auth.RoleID) gin.HandlerFunc {
	return bridge(func(next http.Handler) http.Handler {
		return a.RequireRole(role, next)
	})
}

func bridge(wrap func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Bridge handler to allow net/http middleware execution
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		wrap(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already wrote the response, stop Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
