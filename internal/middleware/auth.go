package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/auth/resolver"
	"github.com/Hawaly/comptaStory/internal/logger"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userKey).(*auth.User)
	return u, ok
}

type AuthMiddleware struct {
	Resolver resolver.Resolver
}

func NewAuthMiddleware(r resolver.Resolver) *AuthMiddleware {
	return &AuthMiddleware{Resolver: r}
}

// RequireAuth rejects requests without a resolvable session and
// attaches the resolved user to the request context.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Resolver.Resolve(r.Context(), r)
		if err != nil {
			if !errors.Is(err, resolver.ErrNoSession) {
				logger.Error("session resolution failed", map[string]any{
					"error": err.Error(),
				})
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole layers a role check on top of RequireAuth. Authenticated
// users without the role get 403, not 401.
func (a *AuthMiddleware) RequireRole(role auth.RoleID, next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.RoleID != role {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
