package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/web"
)

// NewDashboardHandler lists the user's notes with optional `search`
// and `category` query filters.
func NewDashboardHandler(notes NotesManager, categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		search := r.URL.Query().Get("search")

		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				categoryID = &id
			}
		}

		noteList, err := notes.List(ctx, user.UserID, categoryID, search)
		if err != nil {
			logger.Log.Errorw("failed to list notes", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		categoryList, err := categories.List(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		web.Render(w, "dashboard.html", map[string]interface{}{
			"User":       user,
			"Notes":      noteList,
			"Categories": categoryList,
			"Search":     search,
			"CategoryID": categoryID,
		})
	}
}
