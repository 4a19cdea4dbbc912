package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/models"
)

// TokenDecoder extracts and verifies the session token from a request.
type TokenDecoder interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetSessionID(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// UserResolver resolves a session id to the owning user, re-checking
// that the user row still exists.
type UserResolver interface {
	CurrentUser(ctx context.Context, sessionID uuid.UUID) (*models.UserDB, error)
}

type sessionContextKey struct{}
type userContextKey struct{}

var (
	sessionKey = sessionContextKey{}
	userKey    = userContextKey{}
)

// SessionMiddleware resolves the session cookie into the current user
// and stores both in the request context. It never blocks a request;
// the Require* guards below enforce authentication per route group.
func SessionMiddleware(decoder TokenDecoder, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := decoder.GetTokenFromRequest(ctx, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := decoder.GetSessionID(ctx, tokenString)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx = SetSessionIDToContext(ctx, sessionID)

			if user, err := resolver.CurrentUser(ctx, sessionID); err == nil && user != nil {
				ctx = SetUserToContext(ctx, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// SetSessionIDToContext stores the session id in the context.
func SetSessionIDToContext(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

// UserFromContext returns the authenticated user or nil.
func UserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}

// SessionIDFromContext returns the session id carried by the request
// cookie, or uuid.Nil when the request had none.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	sessionID, _ := ctx.Value(sessionKey).(uuid.UUID)
	return sessionID
}

// RequireViewAuth redirects unauthenticated requests to the login page.
func RequireViewAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIAuth rejects unauthenticated requests with a 401 JSON error.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
