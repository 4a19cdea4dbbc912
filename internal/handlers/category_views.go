package handlers

import (
	"errors"
	"net/http"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/services"
)

// NewCategoryCreateViewHandler creates a category from the dashboard
// form. Creating a name that already exists is a quiet no-op.
func NewCategoryCreateViewHandler(categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		name := r.PostFormValue("name")
		if name == "" {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		if _, _, err := categories.GetOrCreate(ctx, name, user.UserID); err != nil {
			logger.Log.Errorw("failed to create category", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// NewCategoryDeleteViewHandler deletes a category from the dashboard.
// The notes referencing it keep their rows with the category cleared.
func NewCategoryDeleteViewHandler(categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		categoryID, ok := idFromURL(r)
		if !ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		err := categories.Delete(ctx, categoryID, user.UserID)
		if err != nil && !errors.Is(err, services.ErrCategoryNotFound) {
			logger.Log.Errorw("failed to delete category", "category_id", categoryID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}
