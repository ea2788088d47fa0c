package credentials

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Hawaly/comptaStory/internal/db"
)

// ErrInvalidCredentials covers every rejection: unknown email,
// deactivated account, wrong password. One error, so responses cannot
// leak which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Authenticate verifies email/password against the directory's users
// table and returns the user id. Inactive accounts are rejected like
// unknown ones.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (int, error) {

	var (
		userID       int
		passwordHash sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash
		FROM users
		WHERE LOWER(email) = LOWER($1)
		  AND is_active = true
	`, email).Scan(&userID, &passwordHash)

	if err != nil {
		// hide whether user exists or not
		return 0, ErrInvalidCredentials
	}

	// SSO-only accounts carry no password hash
	if !passwordHash.Valid {
		return 0, ErrInvalidCredentials
	}

	if err := VerifyPassword(passwordHash.String, password); err != nil {
		return 0, ErrInvalidCredentials
	}

	return userID, nil
}
