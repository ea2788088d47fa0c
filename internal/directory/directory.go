package directory

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no active record matches the lookup.
// Deactivated and missing users are deliberately indistinguishable.
var ErrNotFound = errors.New("directory: user not found")

// Record is the full user-with-role-and-client view held by the
// directory. is_active never appears here: it is a query predicate,
// not a fact the rest of the system may inspect.
type Record struct {
	UserID       int
	Email        string
	RoleID       int
	RoleCode     string
	RoleName     string
	RedirectPath string
	ClientID     *int
	ClientName   *string
}

// Store is the read-only port to the user directory. Implementations
// must only ever return active records.
type Store interface {
	// ActiveUser returns the record for user_id, or ErrNotFound when
	// no active record exists.
	ActiveUser(ctx context.Context, userID int) (*Record, error)

	// ActiveUserByEmail returns the active record matching email.
	// Used by the SSO callback, which identifies users by verified
	// email rather than id.
	ActiveUserByEmail(ctx context.Context, email string) (*Record, error)
}
