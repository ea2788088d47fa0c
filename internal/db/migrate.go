package db

import (
	"context"
	"database/sql"
)

const directoryMigration = `
CREATE TABLE IF NOT EXISTS roles (
    id integer PRIMARY KEY,
    code text NOT NULL UNIQUE,
    name text NOT NULL,
    redirect_path text NOT NULL DEFAULT '/dashboard'
);

CREATE TABLE IF NOT EXISTS clients (
    id serial PRIMARY KEY,
    name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS users (
    id serial PRIMARY KEY,
    email text NOT NULL,
    password_hash text,
    hash_version text,
    role_id integer NOT NULL REFERENCES roles(id),
    client_id integer REFERENCES clients(id),
    is_active boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

INSERT INTO roles (id, code, name, redirect_path) VALUES
    (1, 'admin',  'Administrateur', '/dashboard'),
    (2, 'client', 'Client',         '/client-portal'),
    (3, 'staff',  'Staff',          '/dashboard')
ON CONFLICT (id) DO NOTHING;

CREATE OR REPLACE VIEW user_with_details AS
SELECT
    u.id         AS user_id,
    u.email      AS email,
    u.role_id    AS role_id,
    r.code       AS role_code,
    r.name       AS role_name,
    r.redirect_path AS redirect_path,
    u.client_id  AS client_id,
    c.name       AS client_name,
    u.is_active  AS is_active
FROM users u
JOIN roles r ON r.id = u.role_id
LEFT JOIN clients c ON c.id = u.client_id;
`

// RunDirectoryMigration creates the directory tables, seed roles and
// the user_with_details view consumed by session resolution. Idempotent.
func RunDirectoryMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, directoryMigration)
	return err
}
