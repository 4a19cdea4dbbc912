package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
	"github.com/notesmart/notesmart/web"
)

// Loginer defines the interface that the login service must implement.
// The prior session id, if any, is destroyed before the new session
// is established.
type Loginer interface {
	Login(ctx context.Context, username, password string, priorSessionID uuid.UUID) (uuid.UUID, *models.UserDB, error)
}

// SessionCookier issues and clears the signed session cookie.
type SessionCookier interface {
	Generate(ctx context.Context, sessionID uuid.UUID) (string, error)
	WriteCookie(w http.ResponseWriter, tokenString string)
	ClearCookie(w http.ResponseWriter)
}

// NewLoginHandler returns the login view: GET renders the form, POST
// authenticates and redirects to the dashboard with a fresh session
// cookie. The failure message is the same for an unknown username and
// a wrong password.
func NewLoginHandler(svc Loginer, cookies SessionCookier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if middlewares.UserFromContext(ctx) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		if r.Method == http.MethodGet {
			web.Render(w, "login.html", map[string]interface{}{})
			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")

		renderError := func(message string) {
			web.Render(w, "login.html", map[string]interface{}{
				"Error":    message,
				"Username": username,
			})
		}

		if username == "" || password == "" {
			renderError("Please provide both username and password")
			return
		}

		sessionID, _, err := svc.Login(ctx, username, password, middlewares.SessionIDFromContext(ctx))
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			renderError("Invalid username or password")
		case err != nil:
			logger.Log.Errorw("login failed", "err", err)
			renderError("An error occurred during login")
		default:
			tokenString, err := cookies.Generate(ctx, sessionID)
			if err != nil {
				logger.Log.Errorw("failed to issue session token", "err", err)
				renderError("An error occurred during login")
				return
			}
			cookies.WriteCookie(w, tokenString)
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		}
	}
}
