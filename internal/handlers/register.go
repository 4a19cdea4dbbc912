package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/services"
	"github.com/notesmart/notesmart/web"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) (uuid.UUID, error)
}

// NewRegisterHandler returns the registration view: GET renders the
// form, POST creates the account and redirects to the login page.
// An already authenticated user is sent to the dashboard.
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middlewares.UserFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		if r.Method == http.MethodGet {
			web.Render(w, "register.html", map[string]interface{}{})
			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		username := r.PostFormValue("username")
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		renderError := func(message string) {
			web.Render(w, "register.html", map[string]interface{}{
				"Error":    message,
				"Username": username,
				"Email":    email,
			})
		}

		if username == "" || email == "" || password == "" {
			renderError("Please fill all required fields")
			return
		}

		_, err := svc.Register(r.Context(), username, email, password)
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			renderError("Username already exists")
		case errors.Is(err, services.ErrEmailTaken):
			renderError("Email already exists")
		case err != nil:
			logger.Log.Errorw("registration failed", "err", err)
			renderError("An error occurred during registration")
		default:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	}
}
