package handlers

import (
	"errors"
	"net/http"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
	"github.com/notesmart/notesmart/web"
)

// noteForm is the parsed note form shared by the new and edit views.
type noteForm struct {
	Title      string
	Content    string
	Category   string
	IsTodo     bool
	Importance models.Importance
	Color      string
}

func parseNoteForm(r *http.Request) noteForm {
	form := noteForm{
		Title:      r.PostFormValue("title"),
		Content:    r.PostFormValue("content"),
		Category:   r.PostFormValue("category"),
		IsTodo:     r.PostFormValue("is_todo") == "true",
		Importance: models.Importance(r.PostFormValue("importance")),
		Color:      r.PostFormValue("color"),
	}
	if form.Importance == "" {
		form.Importance = models.ImportanceNormal
	}
	if form.Color == "" {
		form.Color = "blue"
	}
	return form
}

// NewNoteViewHandler renders a single note. An unknown or foreign id
// silently goes back to the dashboard.
func NewNoteViewHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		noteID, ok := idFromURL(r)
		if !ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		note, err := notes.Get(ctx, noteID, user.UserID)
		if errors.Is(err, services.ErrNoteNotFound) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to get note", "note_id", noteID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		web.Render(w, "note.html", map[string]interface{}{
			"User": user,
			"Note": note,
		})
	}
}

// NewNoteCreateViewHandler serves the new-note form and its submit.
// A created to-do lands on the to-do list, a plain note on the
// dashboard.
func NewNoteCreateViewHandler(notes NotesManager, categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		categoryList, err := categories.List(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		renderForm := func(message string) {
			web.Render(w, "edit_note.html", map[string]interface{}{
				"User":       user,
				"Note":       nil,
				"Categories": categoryList,
				"Error":      message,
			})
		}

		if r.Method == http.MethodGet {
			renderForm("")
			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := parseNoteForm(r)

		if form.Title == "" {
			renderForm("Title is required")
			return
		}
		if !form.Importance.Valid() {
			renderForm("Invalid importance")
			return
		}

		if _, err := notes.Create(ctx, user.UserID, services.CreateNoteParams{
			Title:      form.Title,
			Content:    form.Content,
			Category:   form.Category,
			IsTodo:     form.IsTodo,
			Importance: form.Importance,
			Color:      form.Color,
		}); err != nil {
			logger.Log.Errorw("failed to create note", "user_id", user.UserID, "err", err)
			renderForm("An error occurred while saving the note")
			return
		}

		if form.IsTodo {
			http.Redirect(w, r, "/todos", http.StatusSeeOther)
		} else {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		}
	}
}

// NewNoteEditViewHandler serves the edit form and its submit for an
// existing note.
func NewNoteEditViewHandler(notes NotesManager, categories CategoriesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		noteID, ok := idFromURL(r)
		if !ok {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		note, err := notes.Get(ctx, noteID, user.UserID)
		if errors.Is(err, services.ErrNoteNotFound) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to get note", "note_id", noteID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		categoryList, err := categories.List(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "user_id", user.UserID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		renderForm := func(message string) {
			web.Render(w, "edit_note.html", map[string]interface{}{
				"User":       user,
				"Note":       note,
				"Categories": categoryList,
				"Error":      message,
			})
		}

		if r.Method == http.MethodGet {
			renderForm("")
			return
		}

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := parseNoteForm(r)

		if form.Title == "" {
			renderForm("Title is required")
			return
		}
		if !form.Importance.Valid() {
			renderForm("Invalid importance")
			return
		}

		err = notes.Update(ctx, noteID, user.UserID, services.UpdateNoteParams{
			Title:      &form.Title,
			Content:    &form.Content,
			IsTodo:     &form.IsTodo,
			Importance: &form.Importance,
			Color:      &form.Color,
			Category:   &form.Category,
		})
		if err != nil {
			logger.Log.Errorw("failed to update note", "note_id", noteID, "err", err)
			renderForm("An error occurred while saving the note")
			return
		}

		http.Redirect(w, r, "/note/"+noteID.String(), http.StatusSeeOther)
	}
}

// NewNoteDeleteViewHandler deletes a note and goes back to the page
// named by the redirect_to form field.
func NewNoteDeleteViewHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		target := "/dashboard"
		if r.PostFormValue("redirect_to") == "todos" {
			target = "/todos"
		}

		noteID, ok := idFromURL(r)
		if !ok {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		err := notes.Delete(ctx, noteID, user.UserID)
		if err != nil && !errors.Is(err, services.ErrNoteNotFound) {
			logger.Log.Errorw("failed to delete note", "note_id", noteID, "err", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}
