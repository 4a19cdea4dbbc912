package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/notesmart/notesmart/internal/logger"
)

// Store keeps session state in Redis, outside the process. Each
// session maps a random session id to the owning user id with a TTL.
type Store struct {
	rdb *redis.Client
	exp time.Duration
}

// New creates a new Store instance.
func New(rdb *redis.Client, expiration time.Duration) *Store {
	return &Store{rdb: rdb, exp: expiration}
}

func key(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

// Create allocates a fresh session for the user and returns its id.
func (s *Store) Create(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	sessionID := uuid.New()
	if err := s.rdb.Set(ctx, key(sessionID), userID.String(), s.exp).Err(); err != nil {
		logger.Log.Errorw("failed to create session", "user_id", userID, "error", err)
		return uuid.Nil, err
	}
	return sessionID, nil
}

// Get resolves the session to its user id. It returns uuid.Nil with a
// nil error when the session is absent or expired.
func (s *Store) Get(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	val, err := s.rdb.Get(ctx, key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read session", "session_id", sessionID, "error", err)
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		logger.Log.Errorw("corrupt session value", "session_id", sessionID, "error", err)
		return uuid.Nil, nil
	}
	return userID, nil
}

// Delete discards the session. Deleting an absent session is a no-op.
func (s *Store) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return nil
	}
	if err := s.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		logger.Log.Errorw("failed to delete session", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}
