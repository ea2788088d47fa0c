package directory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Hawaly/comptaStory/internal/db"
)

// PGStore reads the user_with_details view over Postgres. Every lookup
// re-validates against current directory state; a deactivated account
// loses access on the very next check.
type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

const recordColumns = `
	user_id, email, role_id, role_code, role_name,
	redirect_path, client_id, client_name
`

func (s *PGStore) ActiveUser(ctx context.Context, userID int) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM user_with_details
		WHERE user_id = $1
		  AND is_active = true
	`, userID)

	return scanRecord(row)
}

func (s *PGStore) ActiveUserByEmail(ctx context.Context, email string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM user_with_details
		WHERE LOWER(email) = LOWER($1)
		  AND is_active = true
	`, email)

	return scanRecord(row)
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		rec        Record
		clientID   sql.NullInt64
		clientName sql.NullString
	)

	err := row.Scan(
		&rec.UserID,
		&rec.Email,
		&rec.RoleID,
		&rec.RoleCode,
		&rec.RoleName,
		&rec.RedirectPath,
		&clientID,
		&clientName,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory: query failed: %w", err)
	}

	if clientID.Valid {
		id := int(clientID.Int64)
		rec.ClientID = &id
	}
	if clientName.Valid {
		name := clientName.String
		rec.ClientName = &name
	}

	return &rec, nil
}
