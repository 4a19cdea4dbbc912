package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/notesmart/notesmart/internal/logger"
	"github.com/notesmart/notesmart/internal/models"
)

func setupPostgres(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()
	logger.Initialize("debug")
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, err := container.Host(ctx)
	assert.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	assert.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	assert.NoError(t, InitSchema(ctx, db))

	return db, func() {
		db.Close()
		container.Terminate(ctx)
	}
}

func createUser(t *testing.T, db *sqlx.DB, username string) uuid.UUID {
	t.Helper()
	userID, err := NewUserWriteRepository(db, nil).Save(
		context.Background(), username, username+"@example.com", "hash",
	)
	assert.NoError(t, err)
	return userID
}

func TestUserRepositories(t *testing.T) {
	db, teardown := setupPostgres(t)
	defer teardown()

	ctx := context.Background()
	writeRepo := NewUserWriteRepository(db, nil)
	readRepo := NewUserReadRepository(db, nil)

	t.Run("save and read back", func(t *testing.T) {
		userID, err := writeRepo.Save(ctx, "alice", "alice@example.com", "hash1")
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, userID)

		byID, err := readRepo.GetByID(ctx, userID)
		assert.NoError(t, err)
		if assert.NotNil(t, byID) {
			assert.Equal(t, "alice", byID.Username)
			assert.Equal(t, "alice@example.com", byID.Email)
			assert.Equal(t, "hash1", byID.PasswordHash)
		}

		byUsername, err := readRepo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		if assert.NotNil(t, byUsername) {
			assert.Equal(t, userID, byUsername.UserID)
		}

		byEmail, err := readRepo.GetByEmail(ctx, "alice@example.com")
		assert.NoError(t, err)
		if assert.NotNil(t, byEmail) {
			assert.Equal(t, userID, byEmail.UserID)
		}
	})

	t.Run("absent user reads as nil", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "ghost")
		assert.NoError(t, err)
		assert.Nil(t, user)

		user, err = readRepo.GetByID(ctx, uuid.New())
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("duplicate username rejected by constraint", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "alice", "other@example.com", "hash2")
		assert.Error(t, err)
	})

	t.Run("duplicate email rejected by constraint", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "other", "alice@example.com", "hash2")
		assert.Error(t, err)
	})
}

func TestCategoryRepositories(t *testing.T) {
	db, teardown := setupPostgres(t)
	defer teardown()

	ctx := context.Background()
	writeRepo := NewCategoryWriteRepository(db, nil)
	readRepo := NewCategoryReadRepository(db, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	t.Run("save and list ordered by name", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "Work", alice)
		assert.NoError(t, err)
		_, err = writeRepo.Save(ctx, "Personal", alice)
		assert.NoError(t, err)

		categories, err := readRepo.ListByUser(ctx, alice)
		assert.NoError(t, err)
		if assert.Len(t, categories, 2) {
			assert.Equal(t, "Personal", categories[0].Name)
			assert.Equal(t, "Work", categories[1].Name)
		}
	})

	t.Run("upsert returns the existing id", func(t *testing.T) {
		first, err := writeRepo.Save(ctx, "Ideas", alice)
		assert.NoError(t, err)
		second, err := writeRepo.Save(ctx, "Ideas", alice)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("same name under different users stays separate", func(t *testing.T) {
		aliceID, err := writeRepo.Save(ctx, "Shared", alice)
		assert.NoError(t, err)
		bobID, err := writeRepo.Save(ctx, "Shared", bob)
		assert.NoError(t, err)
		assert.NotEqual(t, aliceID, bobID)
	})

	t.Run("lookup is scoped to the owner", func(t *testing.T) {
		categoryID, err := writeRepo.Save(ctx, "Secret", alice)
		assert.NoError(t, err)

		category, err := readRepo.GetByID(ctx, categoryID, bob)
		assert.NoError(t, err)
		assert.Nil(t, category)

		category, err = readRepo.GetByName(ctx, "Secret", bob)
		assert.NoError(t, err)
		assert.Nil(t, category)

		category, err = readRepo.GetByID(ctx, categoryID, alice)
		assert.NoError(t, err)
		assert.NotNil(t, category)
	})

	t.Run("name lookup is case-sensitive", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "Books", alice)
		assert.NoError(t, err)

		category, err := readRepo.GetByName(ctx, "books", alice)
		assert.NoError(t, err)
		assert.Nil(t, category)
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		categoryID, err := writeRepo.Save(ctx, "Doomed", alice)
		assert.NoError(t, err)

		rowsAffected, err := writeRepo.Delete(ctx, categoryID, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), rowsAffected)

		rowsAffected, err = writeRepo.Delete(ctx, categoryID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)
	})
}

func TestNoteRepositories(t *testing.T) {
	db, teardown := setupPostgres(t)
	defer teardown()

	ctx := context.Background()
	writeRepo := NewNoteWriteRepository(db, nil)
	readRepo := NewNoteReadRepository(db, nil)
	categoryRepo := NewCategoryWriteRepository(db, nil)

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	workID, err := categoryRepo.Save(ctx, "Work", alice)
	assert.NoError(t, err)

	save := func(t *testing.T, note models.NoteCreate, userID uuid.UUID) uuid.UUID {
		t.Helper()
		noteID, err := writeRepo.Save(ctx, note, userID)
		assert.NoError(t, err)
		return noteID
	}

	t.Run("save and read back with category name", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title:      "Standup notes",
			Content:    "Discuss roadmap",
			Importance: models.ImportanceNormal,
			Color:      "blue",
			CategoryID: &workID,
		}, alice)

		note, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)
		if assert.NotNil(t, note) {
			assert.Equal(t, "Standup notes", note.Title)
			assert.True(t, note.CategoryID.Valid)
			assert.Equal(t, workID, note.CategoryID.UUID)
			assert.True(t, note.CategoryName.Valid)
			assert.Equal(t, "Work", note.CategoryName.String)
			assert.False(t, note.Completed)
		}
	})

	t.Run("reads are scoped to the owner", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Private", Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		note, err := readRepo.GetByID(ctx, noteID, bob)
		assert.NoError(t, err)
		assert.Nil(t, note)

		notes, err := readRepo.List(ctx, bob, nil, "")
		assert.NoError(t, err)
		for _, n := range notes {
			assert.Equal(t, bob, n.UserID)
		}
	})

	t.Run("list filters by category and search", func(t *testing.T) {
		save(t, models.NoteCreate{
			Title: "Grocery run", Content: "milk and eggs",
			Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		byCategory, err := readRepo.List(ctx, alice, &workID, "")
		assert.NoError(t, err)
		for _, n := range byCategory {
			assert.Equal(t, workID, n.CategoryID.UUID)
		}

		bySearch, err := readRepo.List(ctx, alice, nil, "milk")
		assert.NoError(t, err)
		if assert.Len(t, bySearch, 1) {
			assert.Equal(t, "Grocery run", bySearch[0].Title)
		}

		// Substring match is case-sensitive
		bySearch, err = readRepo.List(ctx, alice, nil, "MILK")
		assert.NoError(t, err)
		assert.Len(t, bySearch, 0)
	})

	t.Run("todos order by importance then recency", func(t *testing.T) {
		carol := createUser(t, db, "carol")
		save(t, models.NoteCreate{Title: "low", IsTodo: true, Importance: models.ImportanceLow, Color: "blue"}, carol)
		save(t, models.NoteCreate{Title: "high", IsTodo: true, Importance: models.ImportanceHigh, Color: "blue"}, carol)
		save(t, models.NoteCreate{Title: "normal", IsTodo: true, Importance: models.ImportanceNormal, Color: "blue"}, carol)
		save(t, models.NoteCreate{Title: "plain note", Importance: models.ImportanceNormal, Color: "blue"}, carol)

		todos, err := readRepo.ListTodos(ctx, carol, nil)
		assert.NoError(t, err)
		if assert.Len(t, todos, 3) {
			assert.Equal(t, "high", todos[0].Title)
			assert.Equal(t, "normal", todos[1].Title)
			assert.Equal(t, "low", todos[2].Title)
		}
	})

	t.Run("todos filter by completed", func(t *testing.T) {
		dave := createUser(t, db, "dave")
		doneID := save(t, models.NoteCreate{Title: "done", IsTodo: true, Importance: models.ImportanceNormal, Color: "blue"}, dave)
		save(t, models.NoteCreate{Title: "open", IsTodo: true, Importance: models.ImportanceNormal, Color: "blue"}, dave)

		completed := true
		rowsAffected, err := writeRepo.Update(ctx, doneID, dave, models.NoteUpdate{Completed: &completed})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)

		done, err := readRepo.ListTodos(ctx, dave, &completed)
		assert.NoError(t, err)
		if assert.Len(t, done, 1) {
			assert.Equal(t, "done", done[0].Title)
		}

		open := false
		todos, err := readRepo.ListTodos(ctx, dave, &open)
		assert.NoError(t, err)
		if assert.Len(t, todos, 1) {
			assert.Equal(t, "open", todos[0].Title)
		}
	})

	t.Run("update touches only the given fields", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Original", Content: "body",
			Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		title := "Renamed"
		rowsAffected, err := writeRepo.Update(ctx, noteID, alice, models.NoteUpdate{Title: &title})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)

		note, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)
		if assert.NotNil(t, note) {
			assert.Equal(t, "Renamed", note.Title)
			assert.Equal(t, "body", note.Content)
		}
	})

	t.Run("empty update is a no-op and keeps updated_at", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Untouched", Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		before, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)

		rowsAffected, err := writeRepo.Update(ctx, noteID, alice, models.NoteUpdate{})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), rowsAffected)

		after, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	})

	t.Run("update is scoped to the owner", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Mine", Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		title := "Stolen"
		rowsAffected, err := writeRepo.Update(ctx, noteID, bob, models.NoteUpdate{Title: &title})
		assert.NoError(t, err)
		assert.Equal(t, int64(0), rowsAffected)
	})

	t.Run("clear category", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Categorized", Importance: models.ImportanceNormal, Color: "blue",
			CategoryID: &workID,
		}, alice)

		rowsAffected, err := writeRepo.Update(ctx, noteID, alice, models.NoteUpdate{ClearCategory: true})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)

		note, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)
		if assert.NotNil(t, note) {
			assert.False(t, note.CategoryID.Valid)
			assert.False(t, note.CategoryName.Valid)
		}
	})

	t.Run("category delete clears note references", func(t *testing.T) {
		doomedID, err := categoryRepo.Save(ctx, "Doomed", alice)
		assert.NoError(t, err)
		noteID := save(t, models.NoteCreate{
			Title: "Survivor", Importance: models.ImportanceNormal, Color: "blue",
			CategoryID: &doomedID,
		}, alice)

		rowsAffected, err := categoryRepo.Delete(ctx, doomedID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)

		note, err := readRepo.GetByID(ctx, noteID, alice)
		assert.NoError(t, err)
		if assert.NotNil(t, note) {
			assert.Equal(t, "Survivor", note.Title)
			assert.False(t, note.CategoryID.Valid)
		}
	})

	t.Run("delete is scoped to the owner", func(t *testing.T) {
		noteID := save(t, models.NoteCreate{
			Title: "Keep out", Importance: models.ImportanceNormal, Color: "blue",
		}, alice)

		rowsAffected, err := writeRepo.Delete(ctx, noteID, bob)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), rowsAffected)

		rowsAffected, err = writeRepo.Delete(ctx, noteID, alice)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rowsAffected)
	})
}
