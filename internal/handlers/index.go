package handlers

import (
	"net/http"

	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/web"
)

// NewIndexHandler renders the landing page, or sends authenticated
// users straight to their dashboard.
func NewIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if middlewares.UserFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		web.Render(w, "index.html", nil)
	}
}
