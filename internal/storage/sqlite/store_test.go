package sqlite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "studyday.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_DefaultSettings(t *testing.T) {
	store := setupStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.Timezone != "Local" {
		t.Errorf("timezone = %q, want Local", settings.Timezone)
	}

	settings.CurrentUserID = "u1"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	got, _ := store.GetSettings()
	if got.CurrentUserID != "u1" {
		t.Errorf("current user = %q, want u1", got.CurrentUserID)
	}
}

func TestStore_Days(t *testing.T) {
	store := setupStore(t)

	if _, err := store.GetDay("u1", "2026-10-19"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ts := "2026-10-19T07:00:00Z"
	rec := models.DayRecord{
		UserID: "u1",
		Date:   "2026-10-19",
		Slots: []models.RoutineSlot{
			{ID: "slot-1", StartTime: "06:00", DurationMinutes: 60, SubjectID: "current_affairs", ActivityType: models.ActivityLearn, IsCompleted: true, CompletedAt: &ts},
		},
	}
	if err := store.SaveDay(rec); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}

	got, err := store.GetDay("u1", "2026-10-19")
	if err != nil {
		t.Fatalf("GetDay failed: %v", err)
	}
	if !reflect.DeepEqual(got.Slots, rec.Slots) {
		t.Errorf("slots = %+v, want %+v", got.Slots, rec.Slots)
	}

	// overwrite replaces the whole list
	rec.Slots = []models.RoutineSlot{}
	if err := store.SaveDay(rec); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	got, _ = store.GetDay("u1", "2026-10-19")
	if len(got.Slots) != 0 {
		t.Errorf("expected empty list after overwrite, got %d slots", len(got.Slots))
	}

	if err := store.SaveDay(models.DayRecord{UserID: "u1", Date: "2026-10-17"}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	if err := store.SaveDay(models.DayRecord{UserID: "u2", Date: "2026-10-18"}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	dates, err := store.ListDays("u1")
	if err != nil {
		t.Fatalf("ListDays failed: %v", err)
	}
	if !reflect.DeepEqual(dates, []string{"2026-10-17", "2026-10-19"}) {
		t.Errorf("dates = %v", dates)
	}
}

func TestStore_KeyCollision(t *testing.T) {
	store := setupStore(t)

	// a payload written under the wrong key
	payload, _ := storage.EncodeDay(models.DayRecord{UserID: "u1", Date: "2026-10-18"})
	_, err := store.GetDB().Exec(
		"INSERT INTO routine_days (key, user_id, date, version, payload, updated_at) VALUES (?, ?, ?, 1, ?, '')",
		storage.RoutineKey("u1", "2026-10-19"), "u1", "2026-10-19", string(payload))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := store.GetDay("u1", "2026-10-19"); !errors.Is(err, storage.ErrKeyCollision) {
		t.Errorf("expected ErrKeyCollision, got %v", err)
	}
}

func TestStore_Profiles(t *testing.T) {
	store := setupStore(t)

	if _, err := store.GetUser("u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	routine := models.DefaultStudyRoutine()
	routine.Streak = 3
	user := models.User{ID: "u1", Name: "Asha", ClassLevel: "12", Stream: "science", StudyRoutine: &routine}
	if err := store.SaveUser(user); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}

	got, err := store.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Asha" || got.Stream != "science" {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.StudyRoutine == nil || got.StudyRoutine.Streak != 3 {
		t.Errorf("routine not persisted: %+v", got.StudyRoutine)
	}
}

func TestStore_LoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, storage.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyday.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.SaveDay(models.DayRecord{UserID: "u1", Date: "2026-10-19"}); err != nil {
		t.Fatalf("SaveDay failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.GetDay("u1", "2026-10-19"); err != nil {
		t.Errorf("GetDay after reopen failed: %v", err)
	}
}
