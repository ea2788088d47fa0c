package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Hawaly/comptaStory/internal/auth"
	"github.com/Hawaly/comptaStory/internal/directory"
	"github.com/Hawaly/comptaStory/internal/session"
)

// SessionResolver resolves sessions against the session store and the
// user directory. Stateless; safe for concurrent use across requests.
type SessionResolver struct {
	sessions  session.Store
	directory directory.Store
}

func NewSessionResolver(sessions session.Store, dir directory.Store) *SessionResolver {
	return &SessionResolver{
		sessions:  sessions,
		directory: dir,
	}
}

func (r *SessionResolver) Resolve(
	ctx context.Context,
	req *http.Request,
) (*auth.User, error) {

	// 1. Read session cookie. Fast path: no cookie means no lookups.
	cookie, err := req.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}

	// 2. Load session
	sess, err := r.sessions.Get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("resolver: session lookup failed: %w", err)
	}
	if sess == nil {
		return nil, ErrNoSession
	}

	// 3. Enforce absolute expiry
	if time.Now().After(sess.ExpiresAt) {
		_ = r.sessions.Delete(ctx, sess.SessionID)
		return nil, ErrNoSession
	}

	// 4. A session whose user id does not parse is an invalid session
	userID, err := strconv.Atoi(sess.UserID)
	if err != nil {
		return nil, ErrNoSession
	}

	// 5. Re-validate against current directory state, every time
	rec, err := r.directory.ActiveUser(ctx, userID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	return Project(rec), nil
}
