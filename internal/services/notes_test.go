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

func TestNotesService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	noteID := uuid.New()
	note := &models.NoteDB{NoteID: noteID, UserID: userID, Title: "Buy milk"}

	tests := []struct {
		name      string
		mockSetup func(reader *services.MockNoteReader)
		wantNote  *models.NoteDB
		wantErr   error
	}{
		{
			name: "found",
			mockSetup: func(reader *services.MockNoteReader) {
				reader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(note, nil)
			},
			wantNote: note,
		},
		{
			name: "absent maps to not found",
			mockSetup: func(reader *services.MockNoteReader) {
				reader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(nil, nil)
			},
			wantErr: services.ErrNoteNotFound,
		},
		{
			name: "reader error",
			mockSetup: func(reader *services.MockNoteReader) {
				reader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(nil, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockNoteReader(ctrl)
			tt.mockSetup(mockReader)

			svc := services.NewNotesService(mockReader, services.NewMockNoteWriter(ctrl), services.NewMockCategoryResolver(ctrl))

			got, err := svc.Get(context.Background(), noteID, userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantNote, got)
			}
		})
	}
}

func TestNotesService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	noteID := uuid.New()
	categoryID := uuid.New()

	t.Run("defaults applied", func(t *testing.T) {
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockWriter.EXPECT().
			Save(gomock.Any(), models.NoteCreate{
				Title:      "Buy milk",
				Importance: models.ImportanceNormal,
				Color:      "blue",
			}, userID).
			Return(noteID, nil)

		svc := services.NewNotesService(services.NewMockNoteReader(ctrl), mockWriter, services.NewMockCategoryResolver(ctrl))

		got, err := svc.Create(context.Background(), userID, services.CreateNoteParams{Title: "Buy milk"})
		assert.NoError(t, err)
		assert.Equal(t, noteID, got)
	})

	t.Run("category resolved by name", func(t *testing.T) {
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockResolver := services.NewMockCategoryResolver(ctrl)
		mockResolver.EXPECT().
			GetOrCreate(gomock.Any(), "Work", userID).
			Return(&models.CategoryDB{CategoryID: categoryID, Name: "Work", UserID: userID}, true, nil)
		mockWriter.EXPECT().
			Save(gomock.Any(), models.NoteCreate{
				Title:      "Standup notes",
				Importance: models.ImportanceHigh,
				Color:      "red",
				IsTodo:     true,
				CategoryID: &categoryID,
			}, userID).
			Return(noteID, nil)

		svc := services.NewNotesService(services.NewMockNoteReader(ctrl), mockWriter, mockResolver)

		got, err := svc.Create(context.Background(), userID, services.CreateNoteParams{
			Title:      "Standup notes",
			Category:   "Work",
			IsTodo:     true,
			Importance: models.ImportanceHigh,
			Color:      "red",
		})
		assert.NoError(t, err)
		assert.Equal(t, noteID, got)
	})

	t.Run("resolver error", func(t *testing.T) {
		mockResolver := services.NewMockCategoryResolver(ctrl)
		mockResolver.EXPECT().
			GetOrCreate(gomock.Any(), "Work", userID).
			Return(nil, false, errors.New("db error"))

		svc := services.NewNotesService(services.NewMockNoteReader(ctrl), services.NewMockNoteWriter(ctrl), mockResolver)

		_, err := svc.Create(context.Background(), userID, services.CreateNoteParams{Title: "x", Category: "Work"})
		assert.EqualError(t, err, "db error")
	})
}

func TestNotesService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	noteID := uuid.New()
	categoryID := uuid.New()
	note := &models.NoteDB{NoteID: noteID, UserID: userID, Title: "Buy milk"}

	t.Run("sparse update passes only set fields", func(t *testing.T) {
		completed := true
		mockReader := services.NewMockNoteReader(ctrl)
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockReader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(note, nil)
		mockWriter.EXPECT().
			Update(gomock.Any(), noteID, userID, models.NoteUpdate{Completed: &completed}).
			Return(int64(1), nil)

		svc := services.NewNotesService(mockReader, mockWriter, services.NewMockCategoryResolver(ctrl))

		err := svc.Update(context.Background(), noteID, userID, services.UpdateNoteParams{Completed: &completed})
		assert.NoError(t, err)
	})

	t.Run("unknown note", func(t *testing.T) {
		mockReader := services.NewMockNoteReader(ctrl)
		mockReader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(nil, nil)

		svc := services.NewNotesService(mockReader, services.NewMockNoteWriter(ctrl), services.NewMockCategoryResolver(ctrl))

		err := svc.Update(context.Background(), noteID, userID, services.UpdateNoteParams{})
		assert.ErrorIs(t, err, services.ErrNoteNotFound)
	})

	t.Run("empty category clears", func(t *testing.T) {
		empty := ""
		mockReader := services.NewMockNoteReader(ctrl)
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockReader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(note, nil)
		mockWriter.EXPECT().
			Update(gomock.Any(), noteID, userID, models.NoteUpdate{ClearCategory: true}).
			Return(int64(1), nil)

		svc := services.NewNotesService(mockReader, mockWriter, services.NewMockCategoryResolver(ctrl))

		err := svc.Update(context.Background(), noteID, userID, services.UpdateNoteParams{Category: &empty})
		assert.NoError(t, err)
	})

	t.Run("named category resolved", func(t *testing.T) {
		name := "Work"
		mockReader := services.NewMockNoteReader(ctrl)
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockResolver := services.NewMockCategoryResolver(ctrl)
		mockReader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(note, nil)
		mockResolver.EXPECT().
			GetOrCreate(gomock.Any(), "Work", userID).
			Return(&models.CategoryDB{CategoryID: categoryID, Name: "Work", UserID: userID}, false, nil)
		mockWriter.EXPECT().
			Update(gomock.Any(), noteID, userID, models.NoteUpdate{CategoryID: &categoryID}).
			Return(int64(1), nil)

		svc := services.NewNotesService(mockReader, mockWriter, mockResolver)

		err := svc.Update(context.Background(), noteID, userID, services.UpdateNoteParams{Category: &name})
		assert.NoError(t, err)
	})

	t.Run("empty update is a no-op on an existing note", func(t *testing.T) {
		mockReader := services.NewMockNoteReader(ctrl)
		mockWriter := services.NewMockNoteWriter(ctrl)
		mockReader.EXPECT().GetByID(gomock.Any(), noteID, userID).Return(note, nil)
		mockWriter.EXPECT().
			Update(gomock.Any(), noteID, userID, models.NoteUpdate{}).
			Return(int64(0), nil)

		svc := services.NewNotesService(mockReader, mockWriter, services.NewMockCategoryResolver(ctrl))

		err := svc.Update(context.Background(), noteID, userID, services.UpdateNoteParams{})
		assert.NoError(t, err)
	})
}

func TestNotesService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	noteID := uuid.New()

	tests := []struct {
		name         string
		rowsAffected int64
		writerErr    error
		wantErr      error
	}{
		{name: "deleted", rowsAffected: 1},
		{name: "not found", rowsAffected: 0, wantErr: services.ErrNoteNotFound},
		{name: "writer error", writerErr: errors.New("db error"), wantErr: errors.New("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockWriter := services.NewMockNoteWriter(ctrl)
			mockWriter.EXPECT().
				Delete(gomock.Any(), noteID, userID).
				Return(tt.rowsAffected, tt.writerErr)

			svc := services.NewNotesService(services.NewMockNoteReader(ctrl), mockWriter, services.NewMockCategoryResolver(ctrl))

			err := svc.Delete(context.Background(), noteID, userID)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
