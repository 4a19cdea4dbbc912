package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

const noteColumns = `
	n.note_id, n.title, n.content, n.created_at, n.updated_at,
	n.is_todo, n.completed, n.importance, n.color, n.category_id, n.user_id,
	c.name AS category_name
`

// importanceRank maps the importance level to its total order so
// to-dos sort high before normal before low instead of lexically.
const importanceRank = `
	CASE n.importance
		WHEN 'high' THEN 3
		WHEN 'normal' THEN 2
		WHEN 'low' THEN 1
		ELSE 0
	END
`

// NoteReadRepository handles note read operations.
type NoteReadRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewNoteReadRepository(db *sqlx.DB, connGetter ConnGetter) *NoteReadRepository {
	return &NoteReadRepository{db: db, connGetter: connGetter}
}

// List returns the user's notes, most recently touched first. An
// optional category id narrows the list, and an optional search text
// does a case-sensitive substring match on title or content.
func (r *NoteReadRepository) List(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, search string) ([]models.NoteDB, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN categories c ON n.category_id = c.category_id
		WHERE n.user_id = $1
	`
	args := []interface{}{userID}

	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND n.category_id = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (n.title LIKE $%d OR n.content LIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY n.updated_at DESC"

	return r.list(ctx, query, args)
}

// ListTodos returns the user's to-do notes ordered by importance,
// then by last update. An optional completed flag narrows the list.
func (r *NoteReadRepository) ListTodos(ctx context.Context, userID uuid.UUID, completed *bool) ([]models.NoteDB, error) {
	query := `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN categories c ON n.category_id = c.category_id
		WHERE n.user_id = $1 AND n.is_todo = TRUE
	`
	args := []interface{}{userID}

	if completed != nil {
		args = append(args, *completed)
		query += fmt.Sprintf(" AND n.completed = $%d", len(args))
	}
	query += " ORDER BY " + importanceRank + " DESC, n.updated_at DESC"

	return r.list(ctx, query, args)
}

func (r *NoteReadRepository) list(ctx context.Context, query string, args []interface{}) ([]models.NoteDB, error) {
	notes := make([]models.NoteDB, 0)
	err := pick(ctx, r.db, r.connGetter).SelectContext(ctx, &notes, query, args...)

	logger.Log.Debugw("note list",
		"query", compact(query),
		"args", args,
		"count", len(notes),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetByID returns the note with the given id owned by the user, or
// nil when absent or owned by someone else.
func (r *NoteReadRepository) GetByID(ctx context.Context, noteID, userID uuid.UUID) (*models.NoteDB, error) {
	const query = `
		SELECT ` + noteColumns + `
		FROM notes n
		LEFT JOIN categories c ON n.category_id = c.category_id
		WHERE n.note_id = $1 AND n.user_id = $2
	`

	var note models.NoteDB
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &note, query, noteID, userID)

	logger.Log.Debugw("note query",
		"query", compact(query),
		"args", []interface{}{noteID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// NoteWriteRepository handles note write operations.
type NoteWriteRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewNoteWriteRepository(db *sqlx.DB, connGetter ConnGetter) *NoteWriteRepository {
	return &NoteWriteRepository{db: db, connGetter: connGetter}
}

// Save inserts a new note for the user and returns its id.
func (r *NoteWriteRepository) Save(ctx context.Context, note models.NoteCreate, userID uuid.UUID) (uuid.UUID, error) {
	const query = `
		INSERT INTO notes (note_id, title, content, created_at, updated_at,
			is_todo, completed, importance, color, category_id, user_id)
		VALUES ($1, $2, $3, NOW(), NOW(), $4, FALSE, $5, $6, $7, $8)
		RETURNING note_id
	`

	var categoryID uuid.NullUUID
	if note.CategoryID != nil {
		categoryID = uuid.NullUUID{UUID: *note.CategoryID, Valid: true}
	}
	args := []interface{}{
		uuid.New(), note.Title, note.Content,
		note.IsTodo, note.Importance, note.Color, categoryID, userID,
	}

	var noteID uuid.UUID
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &noteID, query, args...)

	logger.Log.Debugw("note insert",
		"query", compact(query),
		"args", args,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, err
	}
	return noteID, nil
}

// Update applies the sparse field set to the user's note in a single
// filtered statement and reports the number of affected rows. An
// empty update is a no-op and does not refresh updated_at. Zero
// affected rows on a non-empty update means the id does not belong to
// the caller; that is a signal, not an error.
func (r *NoteWriteRepository) Update(ctx context.Context, noteID, userID uuid.UUID, update models.NoteUpdate) (int64, error) {
	if update.Empty() {
		return 0, nil
	}

	var (
		set  []string
		args []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Content != nil {
		add("content", *update.Content)
	}
	if update.IsTodo != nil {
		add("is_todo", *update.IsTodo)
	}
	if update.Completed != nil {
		add("completed", *update.Completed)
	}
	if update.Importance != nil {
		add("importance", *update.Importance)
	}
	if update.Color != nil {
		add("color", *update.Color)
	}
	if update.ClearCategory {
		set = append(set, "category_id = NULL")
	} else if update.CategoryID != nil {
		add("category_id", *update.CategoryID)
	}
	set = append(set, "updated_at = NOW()")

	args = append(args, noteID, userID)
	query := fmt.Sprintf(
		"UPDATE notes SET %s WHERE note_id = $%d AND user_id = $%d",
		strings.Join(set, ", "), len(args)-1, len(args),
	)

	res, err := pick(ctx, r.db, r.connGetter).ExecContext(ctx, query, args...)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("note update",
		"query", compact(query),
		"args", args,
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}

// Delete removes the user's note and reports the number of affected
// rows. Zero rows means absent or not owned.
func (r *NoteWriteRepository) Delete(ctx context.Context, noteID, userID uuid.UUID) (int64, error) {
	const query = `DELETE FROM notes WHERE note_id = $1 AND user_id = $2`

	res, err := pick(ctx, r.db, r.connGetter).ExecContext(ctx, query, noteID, userID)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("note delete",
		"query", compact(query),
		"args", []interface{}{noteID, userID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
