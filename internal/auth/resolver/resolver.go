package resolver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Hawaly/comptaStory/internal/auth"
)

// ErrNoSession collapses every unauthenticated cause: missing or
// malformed cookie, unknown or expired session, deactivated or deleted
// user. Callers must not be able to tell these apart.
var ErrNoSession = errors.New("resolver: no valid session")

// Resolver turns an inbound request's session cookie into the public
// identity of the authenticated user. It is the ONLY place the session
// credential may be interpreted.
type Resolver interface {
	// Resolve returns the authenticated user, ErrNoSession when the
	// request carries no usable session, or a transport error when
	// the session store or directory failed.
	Resolve(ctx context.Context, r *http.Request) (*auth.User, error)
}
