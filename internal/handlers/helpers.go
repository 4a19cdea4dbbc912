package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
)

// ErrorResponse is the JSON error shape of the API surface.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Note not found
	Error string `json:"error"`
}

// NotesManager is the note surface both view and API handlers share,
// so the two surfaces cannot drift apart on ownership or semantics.
type NotesManager interface {
	List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, search string) ([]models.NoteDB, error)
	ListTodos(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.NoteDB, error)
	Get(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteDB, error)
	Create(ctx context.Context, userID uuid.UUID, params services.CreateNoteParams) (uuid.UUID, error)
	Update(ctx context.Context, noteID, userID uuid.UUID, params services.UpdateNoteParams) error
	Delete(ctx context.Context, noteID, userID uuid.UUID) error
}

// CategoriesManager is the category surface both view and API
// handlers share.
type CategoriesManager interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
	GetOrCreate(ctx context.Context, name string, userID uuid.UUID) (*models.CategoryDB, bool, error)
	Delete(ctx context.Context, categoryID, userID uuid.UUID) error
}

// NoteResponse represents a note in API responses
// swagger:model NoteResponse
type NoteResponse struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	IsTodo       bool              `json:"is_todo"`
	Completed    bool              `json:"completed"`
	Importance   models.Importance `json:"importance"`
	Color        string            `json:"color"`
	CategoryID   *uuid.UUID        `json:"category_id"`
	CategoryName *string           `json:"category_name"`
}

func newNoteResponse(note models.NoteDB) NoteResponse {
	resp := NoteResponse{
		ID:         note.NoteID,
		Title:      note.Title,
		Content:    note.Content,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
		IsTodo:     note.IsTodo,
		Completed:  note.Completed,
		Importance: note.Importance,
		Color:      note.Color,
	}
	if note.CategoryID.Valid {
		categoryID := note.CategoryID.UUID
		resp.CategoryID = &categoryID
	}
	if note.CategoryName.Valid {
		categoryName := note.CategoryName.String
		resp.CategoryName = &categoryName
	}
	return resp
}

func newNoteResponses(notes []models.NoteDB) []NoteResponse {
	resp := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		resp = append(resp, newNoteResponse(note))
	}
	return resp
}

// CategoryResponse represents a category in API responses
// swagger:model CategoryResponse
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func newCategoryResponse(category models.CategoryDB) CategoryResponse {
	return CategoryResponse{ID: category.CategoryID, Name: category.Name}
}

func newCategoryResponses(categories []models.CategoryDB) []CategoryResponse {
	resp := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, newCategoryResponse(category))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// idFromURL parses the {id} route parameter. uuid.Nil and an error
// shape identical to "not found" keep invalid ids indistinguishable
// from foreign ones.
func idFromURL(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
