package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/notesmart/notesmart/internal/middlewares"
	"github.com/notesmart/notesmart/internal/models"
	"github.com/notesmart/notesmart/internal/services"
)

func withUser(req *http.Request, user *models.UserDB) *http.Request {
	return req.WithContext(middlewares.SetUserToContext(req.Context(), user))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testNote(userID uuid.UUID) models.NoteDB {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.NoteDB{
		NoteID:     uuid.New(),
		UserID:     userID,
		Title:      "Buy milk",
		Content:    "2 liters",
		CreatedAt:  now,
		UpdatedAt:  now,
		IsTodo:     true,
		Completed:  false,
		Importance: models.ImportanceNormal,
		Color:      "blue",
	}
}

func TestListNotesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	note := testNote(user.UserID)
	categoryID := uuid.New()

	tests := []struct {
		name         string
		target       string
		mockSetup    func(m *MockNotesManager)
		expectedCode int
		expectedLen  int
	}{
		{
			name:   "no filters",
			target: "/api/notes",
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					List(gomock.Any(), user.UserID, nil, "").
					Return([]models.NoteDB{note}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  1,
		},
		{
			name:   "category and search filters",
			target: "/api/notes?category=" + categoryID.String() + "&search=milk",
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					List(gomock.Any(), user.UserID, &categoryID, "milk").
					Return([]models.NoteDB{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name:   "malformed category id is ignored",
			target: "/api/notes?category=not-a-uuid",
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					List(gomock.Any(), user.UserID, nil, "").
					Return([]models.NoteDB{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name:   "service error",
			target: "/api/notes",
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					List(gomock.Any(), user.UserID, nil, "").
					Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := NewMockNotesManager(ctrl)
			tt.mockSetup(mockNotes)

			handler := NewListNotesHandler(mockNotes)

			req := withUser(httptest.NewRequest(http.MethodGet, tt.target, nil), user)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp []NoteResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Len(t, resp, tt.expectedLen)
			}
		})
	}
}

func TestCreateNoteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	note := testNote(user.UserID)

	tests := []struct {
		name          string
		body          string
		mockSetup     func(m *MockNotesManager)
		expectedCode  int
		expectedError string
	}{
		{
			name: "success",
			body: `{"title":"Buy milk","content":"2 liters","is_todo":true}`,
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					Create(gomock.Any(), user.UserID, services.CreateNoteParams{
						Title:   "Buy milk",
						Content: "2 liters",
						IsTodo:  true,
					}).
					Return(note.NoteID, nil)
				m.EXPECT().
					Get(gomock.Any(), note.NoteID, user.UserID).
					Return(&note, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "missing title",
			body:          `{"content":"no title"}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Title is required",
		},
		{
			name:          "empty title",
			body:          `{"title":""}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Title is required",
		},
		{
			name:          "invalid importance",
			body:          `{"title":"Buy milk","importance":"urgent"}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid importance",
		},
		{
			name:          "invalid json",
			body:          `{not json}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "service error",
			body: `{"title":"Buy milk"}`,
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					Create(gomock.Any(), user.UserID, services.CreateNoteParams{Title: "Buy milk"}).
					Return(uuid.Nil, errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := NewMockNotesManager(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockNotes)
			}

			handler := NewCreateNoteHandler(mockNotes)

			req := withUser(httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewBufferString(tt.body)), user)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp.Error)
			}
			if tt.expectedCode == http.StatusCreated {
				var resp NoteResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, note.NoteID, resp.ID)
				assert.Equal(t, "Buy milk", resp.Title)
			}
		})
	}
}

func TestGetNoteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	note := testNote(user.UserID)
	note.CategoryID = uuid.NullUUID{UUID: uuid.New(), Valid: true}
	note.CategoryName = sql.NullString{String: "Work", Valid: true}

	t.Run("success", func(t *testing.T) {
		mockNotes := NewMockNotesManager(ctrl)
		mockNotes.EXPECT().
			Get(gomock.Any(), note.NoteID, user.UserID).
			Return(&note, nil)

		handler := NewGetNoteHandler(mockNotes)

		req := httptest.NewRequest(http.MethodGet, "/api/notes/"+note.NoteID.String(), nil)
		req = withURLParam(withUser(req, user), "id", note.NoteID.String())
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp NoteResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, note.NoteID, resp.ID)
		if assert.NotNil(t, resp.CategoryName) {
			assert.Equal(t, "Work", *resp.CategoryName)
		}
	})

	t.Run("not found", func(t *testing.T) {
		noteID := uuid.New()
		mockNotes := NewMockNotesManager(ctrl)
		mockNotes.EXPECT().
			Get(gomock.Any(), noteID, user.UserID).
			Return(nil, services.ErrNoteNotFound)

		handler := NewGetNoteHandler(mockNotes)

		req := httptest.NewRequest(http.MethodGet, "/api/notes/"+noteID.String(), nil)
		req = withURLParam(withUser(req, user), "id", noteID.String())
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp ErrorResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Note not found", resp.Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		mockNotes := NewMockNotesManager(ctrl)

		handler := NewGetNoteHandler(mockNotes)

		req := httptest.NewRequest(http.MethodGet, "/api/notes/not-a-uuid", nil)
		req = withURLParam(withUser(req, user), "id", "not-a-uuid")
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateNoteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	note := testNote(user.UserID)
	completed := true

	tests := []struct {
		name          string
		body          string
		mockSetup     func(m *MockNotesManager)
		expectedCode  int
		expectedError string
	}{
		{
			name: "sparse update",
			body: `{"completed":true}`,
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					Update(gomock.Any(), note.NoteID, user.UserID, services.UpdateNoteParams{Completed: &completed}).
					Return(nil)
				m.EXPECT().
					Get(gomock.Any(), note.NoteID, user.UserID).
					Return(&note, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "empty title rejected",
			body:          `{"title":""}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Title is required",
		},
		{
			name:          "invalid importance",
			body:          `{"importance":"critical"}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid importance",
		},
		{
			name: "not found",
			body: `{"completed":true}`,
			mockSetup: func(m *MockNotesManager) {
				m.EXPECT().
					Update(gomock.Any(), note.NoteID, user.UserID, services.UpdateNoteParams{Completed: &completed}).
					Return(services.ErrNoteNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Note not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNotes := NewMockNotesManager(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockNotes)
			}

			handler := NewUpdateNoteHandler(mockNotes)

			req := httptest.NewRequest(http.MethodPut, "/api/notes/"+note.NoteID.String(), bytes.NewBufferString(tt.body))
			req = withURLParam(withUser(req, user), "id", note.NoteID.String())
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestDeleteNoteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	noteID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockNotes := NewMockNotesManager(ctrl)
		mockNotes.EXPECT().
			Delete(gomock.Any(), noteID, user.UserID).
			Return(nil)

		handler := NewDeleteNoteHandler(mockNotes)

		req := httptest.NewRequest(http.MethodDelete, "/api/notes/"+noteID.String(), nil)
		req = withURLParam(withUser(req, user), "id", noteID.String())
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockNotes := NewMockNotesManager(ctrl)
		mockNotes.EXPECT().
			Delete(gomock.Any(), noteID, user.UserID).
			Return(services.ErrNoteNotFound)

		handler := NewDeleteNoteHandler(mockNotes)

		req := httptest.NewRequest(http.MethodDelete, "/api/notes/"+noteID.String(), nil)
		req = withURLParam(withUser(req, user), "id", noteID.String())
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
