package scheduler

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

type memStore struct {
	days    map[string]models.DayRecord
	saves   int
	listErr error
}

func newMemStore() *memStore {
	return &memStore{days: map[string]models.DayRecord{}}
}

func (m *memStore) GetDay(userID, date string) (models.DayRecord, error) {
	rec, ok := m.days[storage.RoutineKey(userID, date)]
	if !ok {
		return models.DayRecord{}, storage.ErrNotFound
	}
	rec.Slots = models.CloneSlots(rec.Slots)
	return rec, nil
}

func (m *memStore) SaveDay(rec models.DayRecord) error {
	rec.Slots = models.CloneSlots(rec.Slots)
	m.days[storage.RoutineKey(rec.UserID, rec.Date)] = rec
	m.saves++
	return nil
}

func (m *memStore) ListDays(userID string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var dates []string
	for _, rec := range m.days {
		if rec.UserID == userID {
			dates = append(dates, rec.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestGenerateRoutine_Weekday(t *testing.T) {
	s := New()
	routine := models.DefaultStudyRoutine()

	// 2026-10-19 is a Monday
	slots, err := s.GenerateRoutine(day(t, "2026-10-19"), "10", "", &routine)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	assert.True(t, sort.SliceIsSorted(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	}), "slots should be sorted by start time")

	counts := map[models.ActivityType]int{}
	for _, slot := range slots {
		counts[slot.ActivityType]++
		assert.Equal(t, 60, slot.DurationMinutes)
		assert.False(t, slot.IsCompleted)
	}
	assert.Equal(t, map[models.ActivityType]int{
		models.ActivityLearn:    3,
		models.ActivityPractice: 1,
		models.ActivityRevision: 1,
		models.ActivityTest:     1,
	}, counts)

	assert.Equal(t, "current_affairs", slots[0].SubjectID)
	assert.Equal(t, "math", slots[1].SubjectID)
	assert.Equal(t, "math", slots[2].SubjectID)
	assert.Equal(t, "science", slots[3].SubjectID)
	assert.Equal(t, "science", slots[4].SubjectID)
	assert.Equal(t, "self_analysis", slots[5].SubjectID)
}

func TestRotationSubjects(t *testing.T) {
	tests := []struct {
		name       string
		weekday    time.Weekday
		classLevel string
		stream     string
		sub1, sub2 string
	}{
		{"monday class 10", time.Monday, "10", "", "math", "science"},
		{"tuesday class 10", time.Tuesday, "10", "", "history", "polity"},
		{"wednesday wraps", time.Wednesday, "10", "", "math", "science"},
		{"empty class defaults to 10", time.Tuesday, "", "", "history", "polity"},
		{"science stream", time.Tuesday, "12", "science", "biology", "math"},
		{"commerce stream", time.Monday, "11", "commerce", "accounts", "business"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub1, sub2, err := RotationSubjects(tt.weekday, tt.classLevel, tt.stream)
			require.NoError(t, err)
			assert.Equal(t, tt.sub1, sub1)
			assert.Equal(t, tt.sub2, sub2)
		})
	}
}

func TestRotationSubjects_FallsBackWithoutCore(t *testing.T) {
	original := subjectsFunc
	defer func() { subjectsFunc = original }()

	subjectsFunc = func(string, string) []models.Subject {
		return []models.Subject{{ID: "english"}, {ID: "hindi"}}
	}
	sub1, sub2, err := RotationSubjects(time.Friday, "10", "")
	require.NoError(t, err)
	assert.Equal(t, "english", sub1)
	assert.Equal(t, "hindi", sub2)
}

func TestGenerateRoutine_NoSubjects(t *testing.T) {
	original := subjectsFunc
	defer func() { subjectsFunc = original }()

	subjectsFunc = func(string, string) []models.Subject { return nil }
	_, err := New().GenerateRoutine(day(t, "2026-10-19"), "10", "", nil)
	assert.ErrorIs(t, err, ErrNoSubjects)
}

func TestGenerateRoutine_Sunday(t *testing.T) {
	s := New()
	sunday := day(t, "2026-10-18")

	t.Run("missed slots become catch up", func(t *testing.T) {
		routine := models.DefaultStudyRoutine()
		routine.MissedSlots = []models.RoutineSlot{
			{ID: "A", StartTime: "16:00", ActivityType: models.ActivityLearn},
			{ID: "B", StartTime: "17:15", ActivityType: models.ActivityPractice},
		}
		slots, err := s.GenerateRoutine(sunday, "10", "", &routine)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, "A", slots[0].ID)
		assert.Equal(t, "B", slots[1].ID)
		for _, slot := range slots {
			assert.Equal(t, models.ActivityCatchUp, slot.ActivityType)
		}
		// the routine itself is untouched
		assert.Equal(t, models.ActivityLearn, routine.MissedSlots[0].ActivityType)
	})

	t.Run("no missed slots", func(t *testing.T) {
		routine := models.DefaultStudyRoutine()
		slots, err := s.GenerateRoutine(sunday, "10", "", &routine)
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots)
	})
}

func TestLoadOrCreate_Idempotent(t *testing.T) {
	s := New()
	store := newMemStore()
	user := &models.User{ID: "u1", ClassLevel: "10"}
	date := day(t, "2026-10-20")

	first, created, err := s.LoadOrCreate(store, user, date)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.LoadOrCreate(store, user, date)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Slots, second.Slots)
	assert.Equal(t, 1, store.saves)
}

func TestLoadOrCreate_ReturnsStoredSlotsUnchanged(t *testing.T) {
	s := New()
	store := newMemStore()
	user := &models.User{ID: "u1"}
	date := day(t, "2026-10-20")

	stored := []models.RoutineSlot{{ID: "custom-1", StartTime: "05:00", SubjectID: "extra", IsCustom: true}}
	require.NoError(t, store.SaveDay(models.DayRecord{UserID: "u1", Date: "2026-10-20", Slots: stored}))

	rec, created, err := s.LoadOrCreate(store, user, date)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored, rec.Slots)
}

func TestLoadOrCreate_RollsOverMissedSlots(t *testing.T) {
	s := New()
	store := newMemStore()
	user := &models.User{ID: "u1", ClassLevel: "10"}

	saturday := day(t, "2026-10-17")
	rec, _, err := s.LoadOrCreate(store, user, saturday)
	require.NoError(t, err)
	for i := range rec.Slots {
		if rec.Slots[i].ID != "slot-2" && rec.Slots[i].ID != "slot-4" {
			rec.Slots[i].IsCompleted = true
		}
	}
	require.NoError(t, store.SaveDay(rec))

	sunday := day(t, "2026-10-18")
	rec, created, err := s.LoadOrCreate(store, user, sunday)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, rec.Slots, 2)
	assert.Equal(t, "missed-2026-10-17-slot-2", rec.Slots[0].ID)
	assert.Equal(t, "missed-2026-10-17-slot-4", rec.Slots[1].ID)
	assert.Equal(t, models.ActivityCatchUp, rec.Slots[0].ActivityType)
	assert.Empty(t, user.Routine().MissedSlots, "catch up consumes the missed slots")

	// Sunday list is persisted
	stored, err := store.GetDay("u1", "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, rec.Slots, stored.Slots)
}

func TestCollectMissed_Lookback(t *testing.T) {
	store := newMemStore()
	require.NoError(t, store.SaveDay(models.DayRecord{
		UserID: "u1",
		Date:   "2026-10-10",
		Slots:  []models.RoutineSlot{{ID: "slot-1"}},
	}))

	missed, err := CollectMissed(store, "u1", day(t, "2026-10-20"))
	require.NoError(t, err)
	assert.Empty(t, missed, "days beyond the lookback window are ignored")

	missed, err = CollectMissed(store, "u1", day(t, "2026-10-14"))
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.Equal(t, "missed-2026-10-10-slot-1", missed[0].ID)
}

func TestCollectMissed_UsesLatestEarlierDay(t *testing.T) {
	store := newMemStore()
	for _, d := range []string{"2026-10-14", "2026-10-16", "2026-10-19", "2026-10-21"} {
		require.NoError(t, store.SaveDay(models.DayRecord{
			UserID: "u1",
			Date:   d,
			Slots:  []models.RoutineSlot{{ID: "slot-1"}},
		}))
	}
	require.NoError(t, store.SaveDay(models.DayRecord{
		UserID: "u2",
		Date:   "2026-10-18",
		Slots:  []models.RoutineSlot{{ID: "slot-1"}},
	}))

	missed, err := CollectMissed(store, "u1", day(t, "2026-10-19"))
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.Equal(t, "missed-2026-10-16-slot-1", missed[0].ID)
}

func TestCollectMissed_ListError(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("disk gone")

	_, err := CollectMissed(store, "u1", day(t, "2026-10-19"))
	assert.EqualError(t, err, "disk gone")
}
