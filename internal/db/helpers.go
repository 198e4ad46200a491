package db

import (
	"context"
	"database/sql"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the connected schema.
func (d Dialect) HasTable(ctx context.Context, q QueryRower, table string) bool {
	stmt := `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ? LIMIT 1`
	if d.Placeholder == PlaceholderDollar {
		stmt = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1 LIMIT 1`
	}
	var name sql.NullString
	if err := q.QueryRowContext(ctx, stmt, table).Scan(&name); err != nil {
		// no row and a bad connection both read as absent
		return false
	}
	return name.Valid
}

// MissingTables returns the tables of want that HasTable cannot see.
func (d Dialect) MissingTables(ctx context.Context, q QueryRower, want []string) []string {
	missing := []string{}
	for _, t := range want {
		if !d.HasTable(ctx, q, t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// NullIfEmpty stores empty optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
