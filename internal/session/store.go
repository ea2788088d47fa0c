package session

import (
	"context"
	"time"
)

// Session binds an opaque session identifier to a directory user.
// UserID is the string-encoded integer directory id; only the server
// may mint or invalidate a session.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // string-encoded directory user id
	CreatedAt time.Time // when the session was minted
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
