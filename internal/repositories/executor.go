package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ConnGetter resolves the request-scoped database connection from the
// context. A nil getter or a nil connection falls back to the pool.
type ConnGetter func(ctx context.Context) *sqlx.Conn

// executor is the subset of sqlx operations repositories need. It is
// satisfied by *sqlx.DB and by *sqlx.Conn.
type executor interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func pick(ctx context.Context, db *sqlx.DB, getter ConnGetter) executor {
	if getter != nil {
		if conn := getter(ctx); conn != nil {
			return conn
		}
	}
	return db
}

// compact collapses a multi-line query for single-line logging.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
