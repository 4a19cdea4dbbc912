package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

// ErrCategoryNotFound covers both an absent category and one owned by
// another user; callers cannot tell the two apart.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryReader defines read-only operations for categories.
type CategoryReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
	GetByID(ctx context.Context, categoryID, userID uuid.UUID) (*models.CategoryDB, error)
	GetByName(ctx context.Context, name string, userID uuid.UUID) (*models.CategoryDB, error)
}

// CategoryWriter defines write operations for categories.
type CategoryWriter interface {
	Save(ctx context.Context, name string, userID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, categoryID, userID uuid.UUID) (int64, error)
}

// CategoriesService handles category operations scoped to one user.
type CategoriesService struct {
	reader CategoryReader
	writer CategoryWriter
}

// NewCategoriesService creates a new CategoriesService instance.
func NewCategoriesService(reader CategoryReader, writer CategoryWriter) *CategoriesService {
	return &CategoriesService{reader: reader, writer: writer}
}

// List returns the user's categories ordered by name.
func (svc *CategoriesService) List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	return svc.reader.ListByUser(ctx, userID)
}

// GetOrCreate returns the user's category with the given name,
// creating it when absent. The created flag reports which happened.
// A concurrent creation of the same name resolves to the existing row
// through the repository upsert.
func (svc *CategoriesService) GetOrCreate(ctx context.Context, name string, userID uuid.UUID) (*models.CategoryDB, bool, error) {
	existing, err := svc.reader.GetByName(ctx, name, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	categoryID, err := svc.writer.Save(ctx, name, userID)
	if err != nil {
		logger.Log.Errorw("failed to create category", "name", name, "user_id", userID, "err", err)
		return nil, false, err
	}

	return &models.CategoryDB{CategoryID: categoryID, Name: name, UserID: userID}, true, nil
}

// Delete removes the user's category. Notes referencing it survive
// with their category cleared by the storage layer.
func (svc *CategoriesService) Delete(ctx context.Context, categoryID, userID uuid.UUID) error {
	rowsAffected, err := svc.writer.Delete(ctx, categoryID, userID)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
