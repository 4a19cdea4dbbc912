package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
)

// NoteRequest represents the JSON body for creating or updating a note.
// Absent fields of an update leave the note untouched; an empty
// category string clears the category.
// swagger:model NoteRequest
type NoteRequest struct {
	// Title
	// required: true (on create)
	// default: Buy milk
	Title *string `json:"title"`

	// Content
	Content *string `json:"content"`

	// Category name, resolved or created on demand
	Category *string `json:"category"`

	// To-do flag
	IsTodo *bool `json:"is_todo"`

	// Completion flag, meaningful for to-dos
	Completed *bool `json:"completed"`

	// Importance: low, normal or high
	Importance *models.Importance `json:"importance"`

	// Display color
	Color *string `json:"color"`
}

// NewListNotesHandler returns an HTTP handler listing the user's notes.
// @Summary List notes
// @Description Lists the authenticated user's notes, newest update first. Supports `category` (id) and `search` (substring) filters.
// @Tags notes
// @Produce json
// @Param category query string false "Category id filter"
// @Param search query string false "Substring match on title or content"
// @Success 200 {array} handlers.NoteResponse
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /api/notes [get]
func NewListNotesHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				categoryID = &id
			}
		}

		noteList, err := notes.List(ctx, user.UserID, categoryID, r.URL.Query().Get("search"))
		if err != nil {
			logger.Log.Errorw("failed to list notes", "user_id", user.UserID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newNoteResponses(noteList))
	}
}

// NewCreateNoteHandler returns an HTTP handler creating a note.
// @Summary Create note
// @Description Creates a note for the authenticated user. A category name is resolved or created on demand.
// @Tags notes
// @Accept json
// @Produce json
// @Param noteRequest body handlers.NoteRequest true "Note to create"
// @Success 201 {object} handlers.NoteResponse
// @Failure 400 {object} handlers.ErrorResponse "Title is required"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Router /api/notes [post]
func NewCreateNoteHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		var req NoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Title == nil || *req.Title == "" {
			writeJSONError(w, http.StatusBadRequest, "Title is required")
			return
		}
		if req.Importance != nil && !req.Importance.Valid() {
			writeJSONError(w, http.StatusBadRequest, "Invalid importance")
			return
		}

		params := services.CreateNoteParams{Title: *req.Title}
		if req.Content != nil {
			params.Content = *req.Content
		}
		if req.Category != nil {
			params.Category = *req.Category
		}
		if req.IsTodo != nil {
			params.IsTodo = *req.IsTodo
		}
		if req.Importance != nil {
			params.Importance = *req.Importance
		}
		if req.Color != nil {
			params.Color = *req.Color
		}

		noteID, err := notes.Create(ctx, user.UserID, params)
		if err != nil {
			logger.Log.Errorw("failed to create note", "user_id", user.UserID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		note, err := notes.Get(ctx, noteID, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to load created note", "note_id", noteID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, newNoteResponse(*note))
	}
}

// NewGetNoteHandler returns an HTTP handler fetching one note.
// @Summary Get note
// @Description Returns one of the authenticated user's notes. A foreign or unknown id is reported as not found.
// @Tags notes
// @Produce json
// @Param id path string true "Note id"
// @Success 200 {object} handlers.NoteResponse
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Note not found"
// @Router /api/notes/{id} [get]
func NewGetNoteHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		noteID, ok := idFromURL(r)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}

		note, err := notes.Get(ctx, noteID, user.UserID)
		if errors.Is(err, services.ErrNoteNotFound) {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to get note", "note_id", noteID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newNoteResponse(*note))
	}
}

// NewUpdateNoteHandler returns an HTTP handler applying a sparse update.
// @Summary Update note
// @Description Updates the given fields of one of the authenticated user's notes and returns the updated note.
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note id"
// @Param noteRequest body handlers.NoteRequest true "Fields to change"
// @Success 200 {object} handlers.NoteResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Note not found"
// @Router /api/notes/{id} [put]
func NewUpdateNoteHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		noteID, ok := idFromURL(r)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}

		var req NoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Title != nil && *req.Title == "" {
			writeJSONError(w, http.StatusBadRequest, "Title is required")
			return
		}
		if req.Importance != nil && !req.Importance.Valid() {
			writeJSONError(w, http.StatusBadRequest, "Invalid importance")
			return
		}

		err := notes.Update(ctx, noteID, user.UserID, services.UpdateNoteParams{
			Title:      req.Title,
			Content:    req.Content,
			IsTodo:     req.IsTodo,
			Completed:  req.Completed,
			Importance: req.Importance,
			Color:      req.Color,
			Category:   req.Category,
		})
		if errors.Is(err, services.ErrNoteNotFound) {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to update note", "note_id", noteID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		note, err := notes.Get(ctx, noteID, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to load updated note", "note_id", noteID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newNoteResponse(*note))
	}
}

// NewDeleteNoteHandler returns an HTTP handler deleting one note.
// @Summary Delete note
// @Description Deletes one of the authenticated user's notes.
// @Tags notes
// @Produce json
// @Param id path string true "Note id"
// @Success 204 "Deleted"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 404 {object} handlers.ErrorResponse "Note not found"
// @Router /api/notes/{id} [delete]
func NewDeleteNoteHandler(notes NotesManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := middlewares.UserFromContext(ctx)

		noteID, ok := idFromURL(r)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}

		err := notes.Delete(ctx, noteID, user.UserID)
		if errors.Is(err, services.ErrNoteNotFound) {
			writeJSONError(w, http.StatusNotFound, "Note not found")
			return
		}
		if err != nil {
			logger.Log.Errorw("failed to delete note", "note_id", noteID, "err", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
