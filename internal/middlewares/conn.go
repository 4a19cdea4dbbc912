package middlewares

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/notesmart/notesmart/internal/logger"
)

// DBConnMiddleware gives every request one dedicated database
// connection for its whole duration. The connection is returned to
// the pool on every exit path, including handler panics.
func DBConnMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := db.Connx(r.Context())
			if err != nil {
				logger.Log.Errorw("failed to acquire database connection", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			defer conn.Close()

			ctx := setConnToContext(r.Context(), conn)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// connContextKey is an unexported type for keys in context
type connContextKey struct{}

var connKey = connContextKey{}

// setConnToContext stores a connection in the context
func setConnToContext(ctx context.Context, conn *sqlx.Conn) context.Context {
	return context.WithValue(ctx, connKey, conn)
}

// GetConnFromContext retrieves the request-scoped connection from the
// context. Returns nil if not present.
func GetConnFromContext(ctx context.Context) *sqlx.Conn {
	conn, _ := ctx.Value(connKey).(*sqlx.Conn)
	return conn
}
