package storage

import (
	"database/sql"
)

// NewTestDB wraps an existing connection, such as a sqlmock one, in a DB.
// No migrations are applied.
func NewTestDB(sqlDB *sql.DB) *DB {
	return &DB{conn: sqlDB}
}
