package postgres

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

// TestStore_Integration runs against a real database.
// Example: STUDYDAY_TEST_POSTGRES="postgres://studyday@localhost:5432/studyday_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("STUDYDAY_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("STUDYDAY_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	id := uuid.NewString()
	if _, err := store.GetUser(id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	routine := models.DefaultStudyRoutine()
	routine.Streak = 4
	routine.LastStudyDate = "2026-10-19"
	user := models.User{ID: id, Name: "Integration", ClassLevel: "10", StudyRoutine: &routine}
	if err := store.SaveUser(user); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	routine.Streak = 5
	if err := store.SaveUser(user); err != nil {
		t.Fatalf("second SaveUser failed: %v", err)
	}

	got, err := store.GetUser(id)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.StudyRoutine == nil || got.StudyRoutine.Streak != 5 {
		t.Errorf("expected streak 5 after upsert, got %+v", got.StudyRoutine)
	}
	if got.StudyRoutine.LastStudyDate != "2026-10-19" {
		t.Errorf("last study date = %q", got.StudyRoutine.LastStudyDate)
	}
}
