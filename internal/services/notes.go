package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

// ErrNoteNotFound covers both an absent note and one owned by another
// user; callers cannot tell the two apart.
var ErrNoteNotFound = errors.New("note not found")

// NoteReader defines read-only operations for notes.
type NoteReader interface {
	List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, search string) ([]models.NoteDB, error)
	ListTodos(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.NoteDB, error)
	GetByID(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteDB, error)
}

// NoteWriter defines write operations for notes.
type NoteWriter interface {
	Save(ctx context.Context, note models.NoteCreate, userID uuid.UUID) (uuid.UUID, error)
	Update(ctx context.Context, noteID, userID uuid.UUID, update models.NoteUpdate) (int64, error)
	Delete(ctx context.Context, noteID, userID uuid.UUID) (int64, error)
}

// CategoryResolver turns a category name into the user's category,
// creating it on demand.
type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string, userID uuid.UUID) (*models.CategoryDB, bool, error)
}

// CreateNoteParams carries the fields for a new note. An empty
// Category means no category; a non-empty one is resolved by name.
type CreateNoteParams struct {
	Title      string
	Content    string
	Category   string
	IsTodo     bool
	Importance models.Importance
	Color      string
}

// UpdateNoteParams is a sparse update. Nil pointers leave the field
// untouched. A nil Category leaves the category untouched, an empty
// one clears it, any other value is resolved by name.
type UpdateNoteParams struct {
	Title      *string
	Content    *string
	IsTodo     *bool
	Completed  *bool
	Importance *models.Importance
	Color      *string
	Category   *string
}

// NotesService handles note operations scoped to one user.
type NotesService struct {
	reader     NoteReader
	writer     NoteWriter
	categories CategoryResolver
}

// NewNotesService creates a new NotesService instance.
func NewNotesService(reader NoteReader, writer NoteWriter, categories CategoryResolver) *NotesService {
	return &NotesService{reader: reader, writer: writer, categories: categories}
}

// List returns the user's notes with optional category and search filters.
func (svc *NotesService) List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, search string) ([]models.NoteDB, error) {
	return svc.reader.List(ctx, userID, categoryID, search)
}

// ListTodos returns the user's to-do notes with an optional completed filter.
func (svc *NotesService) ListTodos(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.NoteDB, error) {
	return svc.reader.ListTodos(ctx, userID, completed)
}

// Get returns the user's note or ErrNoteNotFound.
func (svc *NotesService) Get(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteDB, error) {
	note, err := svc.reader.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Create stores a new note, resolving its category by name on demand,
// and returns the note id. Importance and color fall back to their
// defaults when unset.
func (svc *NotesService) Create(ctx context.Context, userID uuid.UUID, params CreateNoteParams) (uuid.UUID, error) {
	if params.Importance == "" {
		params.Importance = models.ImportanceNormal
	}
	if params.Color == "" {
		params.Color = "blue"
	}

	var categoryID *uuid.UUID
	if params.Category != "" {
		category, _, err := svc.categories.GetOrCreate(ctx, params.Category, userID)
		if err != nil {
			return uuid.Nil, err
		}
		categoryID = &category.CategoryID
	}

	noteID, err := svc.writer.Save(ctx, models.NoteCreate{
		Title:      params.Title,
		Content:    params.Content,
		IsTodo:     params.IsTodo,
		Importance: params.Importance,
		Color:      params.Color,
		CategoryID: categoryID,
	}, userID)
	if err != nil {
		logger.Log.Errorw("failed to create note", "user_id", userID, "err", err)
		return uuid.Nil, err
	}

	return noteID, nil
}

// Update applies a sparse update to the user's note. It returns
// ErrNoteNotFound when the id does not resolve under the caller's
// ownership; an empty update on an existing note is a no-op.
func (svc *NotesService) Update(ctx context.Context, noteID, userID uuid.UUID, params UpdateNoteParams) error {
	note, err := svc.reader.GetByID(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if note == nil {
		return ErrNoteNotFound
	}

	update := models.NoteUpdate{
		Title:      params.Title,
		Content:    params.Content,
		IsTodo:     params.IsTodo,
		Completed:  params.Completed,
		Importance: params.Importance,
		Color:      params.Color,
	}

	if params.Category != nil {
		if *params.Category == "" {
			update.ClearCategory = true
		} else {
			category, _, err := svc.categories.GetOrCreate(ctx, *params.Category, userID)
			if err != nil {
				return err
			}
			update.CategoryID = &category.CategoryID
		}
	}

	if _, err := svc.writer.Update(ctx, noteID, userID, update); err != nil {
		logger.Log.Errorw("failed to update note", "note_id", noteID, "user_id", userID, "err", err)
		return err
	}
	return nil
}

// Delete removes the user's note or returns ErrNoteNotFound.
func (svc *NotesService) Delete(ctx context.Context, noteID, userID uuid.UUID) error {
	rowsAffected, err := svc.writer.Delete(ctx, noteID, userID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}
