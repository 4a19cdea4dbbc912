package handlers

import (
	"net/http"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/web"
)

// completedFilter parses the optional `completed` query parameter.
// Absent means no filter.
func completedFilter(r *http.Request) *bool {
	raw := r.URL.Query().Get("completed")
	if raw == "" {
		return nil
	}
	completed := raw == "true"
	return &completed
}

// NewTodosHandler lists the user's to-do notes ordered by importance,
// with an optional `completed` query filter.
func NewTodosHandler(notes NotesManager, categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		todoList, err := notes.ListTodos(ctx, user.UserID, completedFilter(r))
		if err != nil {
			logger.Log.Errorw("failed to list todos", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		categoryList, err := categories.List(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		web.Render(w, "todos.html", map[string]interface{}{
			"User":       user,
			"Todos":      todoList,
			"Categories": categoryList,
		})
	}
}
