package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// NoteDB represents a note record in the database, joined with the
// name of its category when one is set.
type NoteDB struct {
	NoteID       uuid.UUID      `json:"id" db:"note_id"`
	Title        string         `json:"title" db:"title"`
	Content      string         `json:"content" db:"content"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	IsTodo       bool           `json:"is_todo" db:"is_todo"`
	Completed    bool           `json:"completed" db:"completed"`
	Importance   Importance     `json:"importance" db:"importance"`
	Color        string         `json:"color" db:"color"`
	CategoryID   uuid.NullUUID  `json:"category_id" db:"category_id"`
	CategoryName sql.NullString `json:"category_name" db:"category_name"`
	UserID       uuid.UUID      `json:"user_id" db:"user_id"`
}

// NoteCreate carries the fields of a new note.
type NoteCreate struct {
	Title      string
	Content    string
	IsTodo     bool
	Importance Importance
	Color      string
	CategoryID *uuid.UUID
}

// NoteUpdate is a sparse set of note fields to change. Nil pointers
// leave the column untouched. ClearCategory sets category_id to NULL
// and takes precedence over CategoryID.
type NoteUpdate struct {
	Title         *string
	Content       *string
	IsTodo        *bool
	Completed     *bool
	Importance    *Importance
	Color         *string
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// Empty reports whether the update changes nothing.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.IsTodo == nil &&
		u.Completed == nil && u.Importance == nil && u.Color == nil &&
		u.CategoryID == nil && !u.ClearCategory
}
