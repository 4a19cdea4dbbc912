package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

// CategoryReadRepository handles category read operations. Every query
// carries the owning user id in its predicate.
type CategoryReadRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewCategoryReadRepository(db *sqlx.DB, connGetter ConnGetter) *CategoryReadRepository {
	return &CategoryReadRepository{db: db, connGetter: connGetter}
}

// ListByUser returns the user's categories ordered by name.
func (r *CategoryReadRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	const query = `
		SELECT category_id, name, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	categories := make([]models.CategoryDB, 0)
	err := pick(ctx, r.db, r.connGetter).SelectContext(ctx, &categories, query, userID)

	logger.Log.Debugw("category list",
		"query", compact(query),
		"args", []interface{}{userID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns the category with the given id owned by the user,
// or nil when absent or owned by someone else.
func (r *CategoryReadRepository) GetByID(ctx context.Context, categoryID, userID uuid.UUID) (*models.CategoryDB, error) {
	const query = `
		SELECT category_id, name, user_id
		FROM categories
		WHERE category_id = $1 AND user_id = $2
	`
	return r.getOne(ctx, query, categoryID, userID)
}

// GetByName returns the user's category with the exact given name, or
// nil when absent. The lookup is case-sensitive.
func (r *CategoryReadRepository) GetByName(ctx context.Context, name string, userID uuid.UUID) (*models.CategoryDB, error) {
	const query = `
		SELECT category_id, name, user_id
		FROM categories
		WHERE name = $1 AND user_id = $2
	`
	return r.getOne(ctx, query, name, userID)
}

func (r *CategoryReadRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.CategoryDB, error) {
	var category models.CategoryDB
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &category, query, args...)

	logger.Log.Debugw("category query",
		"query", compact(query),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryWriteRepository handles category write operations.
type CategoryWriteRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewCategoryWriteRepository(db *sqlx.DB, connGetter ConnGetter) *CategoryWriteRepository {
	return &CategoryWriteRepository{db: db, connGetter: connGetter}
}

// Save inserts a category or, when the (user_id, name) pair already
// exists, returns the existing id. The upsert keeps concurrent
// creations of the same name race-free in a single statement: the
// unique constraint is the backstop, and the no-op DO UPDATE makes
// RETURNING yield the surviving row either way.
func (r *CategoryWriteRepository) Save(ctx context.Context, name string, userID uuid.UUID) (uuid.UUID, error) {
	const query = `
		INSERT INTO categories (category_id, name, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING category_id
	`
	args := []interface{}{uuid.New(), name, userID}

	var categoryID uuid.UUID
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &categoryID, query, args...)

	logger.Log.Debugw("category upsert",
		"query", compact(query),
		"args", args,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, err
	}
	return categoryID, nil
}

// Delete removes the category when it belongs to the user and reports
// the number of affected rows. Notes referencing the category keep
// their rows; the foreign key clears their category_id.
func (r *CategoryWriteRepository) Delete(ctx context.Context, categoryID, userID uuid.UUID) (int64, error) {
	const query = `DELETE FROM categories WHERE category_id = $1 AND user_id = $2`

	res, err := pick(ctx, r.db, r.connGetter).ExecContext(ctx, query, categoryID, userID)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Debugw("category delete",
		"query", compact(query),
		"args", []interface{}{categoryID, userID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
