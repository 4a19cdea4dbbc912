package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

// Error variables
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// DefaultCategories are seeded for every freshly registered user.
var DefaultCategories = []string{"Work", "Personal"}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, email, passwordHash string) (uuid.UUID, error)
}

// CategorySeeder creates categories during registration.
type CategorySeeder interface {
	Save(ctx context.Context, name string, userID uuid.UUID) (uuid.UUID, error)
}

// SessionStore holds session state between requests.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	Get(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// AuthService handles registration, login and session resolution.
type AuthService struct {
	reader     UserReader
	writer     UserWriter
	categories CategorySeeder
	sessions   SessionStore
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, categories CategorySeeder, sessions SessionStore) *AuthService {
	return &AuthService{
		reader:     reader,
		writer:     writer,
		categories: categories,
		sessions:   sessions,
	}
}

// Register creates a new user and seeds the default categories.
// Username and email collisions are checked before the insert so the
// caller gets a field-specific error. The category seeding is not
// atomic with the user insert; a crash in between leaves a user
// without defaults, which is accepted.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrUsernameTaken
	}

	existing, err = svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return uuid.Nil, err
	}

	userID, err := svc.writer.Save(ctx, username, email, string(hashedPassword))
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return uuid.Nil, err
	}

	for _, name := range DefaultCategories {
		if _, err := svc.categories.Save(ctx, name, userID); err != nil {
			logger.Log.Errorw("failed to seed default category", "name", name, "user_id", userID, "err", err)
			return uuid.Nil, err
		}
	}

	logger.Log.Infow("user registered", "username", username, "user_id", userID)
	return userID, nil
}

// Login authenticates a user and establishes a fresh session. The
// failure is the same for an unknown username and a wrong password so
// the response does not leak which one was wrong. Any prior session
// is destroyed before the new one is created.
func (svc *AuthService) Login(ctx context.Context, username, password string, priorSessionID uuid.UUID) (uuid.UUID, *models.UserDB, error) {
	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return uuid.Nil, nil, err
	}
	if user == nil {
		return uuid.Nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, nil, ErrInvalidCredentials
	}

	// Session fixation defense: clear before set.
	if err := svc.sessions.Delete(ctx, priorSessionID); err != nil {
		logger.Log.Errorw("failed to clear prior session", "err", err)
		return uuid.Nil, nil, err
	}

	sessionID, err := svc.sessions.Create(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to create session", "err", err)
		return uuid.Nil, nil, err
	}

	logger.Log.Infow("user logged in", "username", username, "user_id", user.UserID)
	return sessionID, user, nil
}

// Logout discards the session state.
func (svc *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return svc.sessions.Delete(ctx, sessionID)
}

// CurrentUser resolves the session to its user row. It returns nil
// when the session is absent, expired, or the account was deleted
// after the session was issued.
func (svc *AuthService) CurrentUser(ctx context.Context, sessionID uuid.UUID) (*models.UserDB, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}

	userID, err := svc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID == uuid.Nil {
		return nil, nil
	}

	return svc.reader.GetByID(ctx, userID)
}

// IsAuthenticated reports whether the session still resolves to an
// existing user row, not merely whether it carries an id.
func (svc *AuthService) IsAuthenticated(ctx context.Context, sessionID uuid.UUID) bool {
	user, err := svc.CurrentUser(ctx, sessionID)
	return err == nil && user != nil
}
