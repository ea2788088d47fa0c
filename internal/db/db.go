package db

import "database/sql"

// DB wraps the shared sql.DB handle so dependents take a named type
// instead of the raw driver handle.
type DB struct {
	*sql.DB
}
