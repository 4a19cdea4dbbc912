package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
)

func TestCategoriesService_GetOrCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	categoryID := uuid.New()
	existing := &models.CategoryDB{CategoryID: categoryID, Name: "Work", UserID: userID}

	tests := []struct {
		name        string
		mockSetup   func(reader *services.MockCategoryReader, writer *services.MockCategoryWriter)
		wantCreated bool
		wantErr     error
	}{
		{
			name: "existing name returned",
			mockSetup: func(reader *services.MockCategoryReader, writer *services.MockCategoryWriter) {
				reader.EXPECT().GetByName(gomock.Any(), "Work", userID).Return(existing, nil)
			},
			wantCreated: false,
		},
		{
			name: "absent name created",
			mockSetup: func(reader *services.MockCategoryReader, writer *services.MockCategoryWriter) {
				reader.EXPECT().GetByName(gomock.Any(), "Work", userID).Return(nil, nil)
				writer.EXPECT().Save(gomock.Any(), "Work", userID).Return(categoryID, nil)
			},
			wantCreated: true,
		},
		{
			name: "reader error",
			mockSetup: func(reader *services.MockCategoryReader, writer *services.MockCategoryWriter) {
				reader.EXPECT().GetByName(gomock.Any(), "Work", userID).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			name: "writer error",
			mockSetup: func(reader *services.MockCategoryReader, writer *services.MockCategoryWriter) {
				reader.EXPECT().GetByName(gomock.Any(), "Work", userID).Return(nil, nil)
				writer.EXPECT().Save(gomock.Any(), "Work", userID).Return(uuid.Nil, errors.New("save error"))
			},
			wantErr: errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockCategoryReader(ctrl)
			mockWriter := services.NewMockCategoryWriter(ctrl)
			tt.mockSetup(mockReader, mockWriter)

			svc := services.NewCategoriesService(mockReader, mockWriter)

			category, created, err := svc.GetOrCreate(context.Background(), "Work", userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, category)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
			if assert.NotNil(t, category) {
				assert.Equal(t, categoryID, category.CategoryID)
				assert.Equal(t, "Work", category.Name)
				assert.Equal(t, userID, category.UserID)
			}
		})
	}
}

func TestCategoriesService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	categories := []models.CategoryDB{
		{CategoryID: uuid.New(), Name: "Personal", UserID: userID},
		{CategoryID: uuid.New(), Name: "Work", UserID: userID},
	}

	mockReader := services.NewMockCategoryReader(ctrl)
	mockReader.EXPECT().ListByUser(gomock.Any(), userID).Return(categories, nil)

	svc := services.NewCategoriesService(mockReader, services.NewMockCategoryWriter(ctrl))

	got, err := svc.List(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, categories, got)
}

func TestCategoriesService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	categoryID := uuid.New()

	tests := []struct {
		name         string
		rowsAffected int64
		writerErr    error
		wantErr      error
	}{
		{name: "deleted", rowsAffected: 1},
		{name: "not found", rowsAffected: 0, wantErr: services.ErrCategoryNotFound},
		{name: "writer error", writerErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWriter := services.NewMockCategoryWriter(ctrl)
			mockWriter.EXPECT().
				Delete(gomock.Any(), categoryID, userID).
				Return(tt.rowsAffected, tt.writerErr)

			svc := services.NewCategoriesService(services.NewMockCategoryReader(ctrl), mockWriter)

			err := svc.Delete(context.Background(), categoryID, userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
