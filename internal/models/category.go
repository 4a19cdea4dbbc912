package models

import "github.com/google/uuid"

// CategoryDB represents a category record in the database.
// Category names are unique per owning user.
type CategoryDB struct {
	CategoryID uuid.UUID `json:"id" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
}
