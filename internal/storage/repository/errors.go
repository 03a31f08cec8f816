package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrUniqueViolation is returned when an insert or update collides with a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrProtected is returned when a delete is rejected because other rows still reference the target.
	ErrProtected = errors.New("row is still referenced")

	// ErrInvalidReference is returned when a write references a row that does not exist.
	ErrInvalidReference = errors.New("referenced row does not exist")

	// ErrInvalidValue is returned when a value fails a CHECK constraint.
	ErrInvalidValue = errors.New("value violates check constraint")
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so repositories can
// run inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteCode extracts the extended result code from a driver error.
func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code(), true
	}
	return 0, false
}

// classifyWrite maps constraint failures of INSERT/UPDATE statements to sentinel errors.
func classifyWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	code, ok := sqliteCode(err)
	if ok {
		switch code {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %v", op, ErrUniqueViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidReference, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%s: %w: %v", op, ErrInvalidValue, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// classifyDelete maps a foreign key failure during DELETE to ErrProtected.
func classifyDelete(op string, err error) error {
	if err == nil {
		return nil
	}
	if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return fmt.Errorf("%s: %w", op, ErrProtected)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireAffected(op string, result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// intArg and stringArg pass nullable columns to the driver as NULL or a plain value.
func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringArg(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
