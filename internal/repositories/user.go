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

const userColumns = `user_id, username, email, password_hash, created_at, updated_at`

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewUserReadRepository(db *sqlx.DB, connGetter ConnGetter) *UserReadRepository {
	return &UserReadRepository{db: db, connGetter: connGetter}
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.UserDB, error) {
	var user models.UserDB
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &user, query, arg)

	logger.Log.Debugw("user query",
		"query", compact(query),
		"args", []interface{}{arg},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

// GetByUsername returns the user with the given username, or nil when absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.getOne(ctx, query, username)
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db         *sqlx.DB
	connGetter ConnGetter
}

func NewUserWriteRepository(db *sqlx.DB, connGetter ConnGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, connGetter: connGetter}
}

// Save inserts a new user row and returns its id. Uniqueness of
// username and email is backstopped by the table constraints.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error) {
	const query = `
		INSERT INTO users (user_id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING user_id
	`
	args := []interface{}{uuid.New(), username, email, passwordHash}

	var userID uuid.UUID
	err := pick(ctx, r.db, r.connGetter).GetContext(ctx, &userID, query, args...)

	logger.Log.Debugw("user insert",
		"query", compact(query),
		"username", username,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}
