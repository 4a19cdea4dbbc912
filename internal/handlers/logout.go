package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// NewLogoutHandler clears the session state and cookie and redirects
// to the landing page. Logging out without a session is harmless.
func NewLogoutHandler(svc Logouter, cookies SessionCookier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if sessionID := middlewares.SessionIDFromContext(ctx); sessionID != uuid.Nil {
			if err := svc.Logout(ctx, sessionID); err != nil {
				logger.Log.Errorw("logout failed", "err", err)
			}
		}

		cookies.ClearCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
