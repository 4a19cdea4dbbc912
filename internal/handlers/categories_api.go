package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/services"
)

// CategoryRequest represents the JSON body for creating a category
// swagger:model CategoryRequest
type CategoryRequest struct {
	// Category name, unique per user
	// required: true
	// default: Work
	Name string `json:"name"`
}

// NewListCategoriesHandler returns an HTTP handler listing the user's categories.
// @Summary List categories
// @Description Lists the authenticated user's categories ordered by name.
// @Tags categories
// @Produce json
// @Success 200 {array} handlers.CategoryResponse
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /api/categories [get]
func NewListCategoriesHandler(categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		categoryList, err := categories.List(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "user_id", user.UserID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newCategoryResponses(categoryList))
	}
}

// NewCreateCategoryHandler returns an HTTP handler creating a category.
// Creation is idempotent: an existing name answers 200 with the
// existing row, a new one answers 201.
// @Summary Create category
// @Description Creates a category for the authenticated user, or returns the existing one with the same name.
// @Tags categories
// @Accept json
// @Produce json
// @Param categoryRequest body handlers.CategoryRequest true "Category to create"
// @Success 200 {object} handlers.CategoryResponse "Already existed"
// @Success 201 {object} handlers.CategoryResponse "Created"
// @Failure 400 {object} handlers.ErrorResponse "Category name is required"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /api/categories [post]
func NewCreateCategoryHandler(categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		var req CategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" {
			writeJSONError(w, http.StatusBadRequest, "Category name is required")
			return
		}

		category, created, err := categories.GetOrCreate(ctx, req.Name, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to create category", "user_id", user.UserID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, newCategoryResponse(*category))
	}
}

// NewDeleteCategoryHandler returns an HTTP handler deleting a category.
// @Summary Delete category
// @Description Deletes one of the authenticated user's categories. Its notes survive with the category cleared.
// @Tags categories
// @Produce json
// @Param id path string true "Category id"
// @Success 204 "Deleted"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Category not found"
// @Router /api/categories/{id} [delete]
func NewDeleteCategoryHandler(categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		categoryID, ok := idFromURL(r)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Category not found")
			return
		}

		err := categories.Delete(ctx, categoryID, user.UserID)
		if errors.Is(err, services.ErrCategoryNotFound) {
			writeJSONError(w, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to delete category", "category_id", categoryID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
