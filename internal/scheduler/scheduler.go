package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/studyday/internal/catalog"
	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/utils"
)

var ErrNoSubjects = errors.New("no subjects available for this class and stream")

// subjectsFunc allows mocking the catalog lookup in tests
var subjectsFunc = catalog.Subjects

type Scheduler struct{}

func New() *Scheduler {
	return &Scheduler{}
}

type slotTemplate struct {
	id       string
	start    string
	subject  int // -1 current affairs, -2 self analysis, 0/1 rotation subject
	topic    string
	activity models.ActivityType
}

const (
	subjectCurrentAffairs = -1
	subjectSelfAnalysis   = -2
)

var dailyTemplate = []slotTemplate{
	{"slot-1", "06:00", subjectCurrentAffairs, "Daily Current Affairs & Notes", models.ActivityLearn},
	{"slot-2", "16:00", 0, "Core Concept Study", models.ActivityLearn},
	{"slot-3", "17:15", 0, "Practice Questions (MCQ)", models.ActivityPractice},
	{"slot-4", "19:00", 1, "Core Concept Study", models.ActivityLearn},
	{"slot-5", "20:15", 1, "Revision (SRS System)", models.ActivityRevision},
	{"slot-6", "21:30", subjectSelfAnalysis, "Day Analysis & Next Day Plan", models.ActivityTest},
}

// GenerateRoutine builds the slot list for date without touching storage.
// Sundays return the routine's missed slots as catch-up work.
func (s *Scheduler) GenerateRoutine(date time.Time, classLevel, stream string, routine *models.StudyRoutine) ([]models.RoutineSlot, error) {
	if date.Weekday() == time.Sunday {
		return catchUp(routine), nil
	}

	if classLevel == "" {
		classLevel = constants.DefaultClassLevel
	}
	sub1, sub2, err := RotationSubjects(date.Weekday(), classLevel, stream)
	if err != nil {
		return nil, err
	}

	slots := make([]models.RoutineSlot, 0, len(dailyTemplate))
	for _, tpl := range dailyTemplate {
		var subject string
		switch tpl.subject {
		case subjectCurrentAffairs:
			subject = constants.SubjectCurrentAffairs
		case subjectSelfAnalysis:
			subject = constants.SubjectSelfAnalysis
		case 0:
			subject = sub1
		default:
			subject = sub2
		}
		slots = append(slots, models.RoutineSlot{
			ID:              tpl.id,
			StartTime:       tpl.start,
			DurationMinutes: constants.DefaultSlotMinutes,
			SubjectID:       subject,
			Topic:           tpl.topic,
			ActivityType:    tpl.activity,
		})
	}
	return slots, nil
}

// RotationSubjects picks the two focus subjects for a weekday. Monday starts the
// rotation at the first core subject and each following day advances by two.
func RotationSubjects(weekday time.Weekday, classLevel, stream string) (string, string, error) {
	subjects := subjectsFunc(classLevel, stream)
	if len(subjects) == 0 {
		return "", "", ErrNoSubjects
	}
	core := catalog.CoreSubjects(subjects)

	idx := (int(weekday) - 1) * 2
	if idx < 0 {
		idx = 0
	}

	if n := len(core); n >= 2 {
		return core[idx%n].ID, core[(idx+1)%n].ID, nil
	}

	// Too few core subjects to rotate: use the head of the catalog list.
	if len(subjects) == 1 {
		return subjects[0].ID, subjects[0].ID, nil
	}
	return subjects[0].ID, subjects[1].ID, nil
}

func catchUp(routine *models.StudyRoutine) []models.RoutineSlot {
	if routine == nil || len(routine.MissedSlots) == 0 {
		return []models.RoutineSlot{}
	}
	slots := models.CloneSlots(routine.MissedSlots)
	for i := range slots {
		slots[i].ActivityType = models.ActivityCatchUp
		slots[i].IsCompleted = false
		slots[i].CompletedAt = nil
	}
	return slots
}

// LoadOrCreate returns the stored record for the user's day, generating and
// persisting a new one when none exists. When a day is created the user's
// routine is updated (missed-slot rollover, catch-up consumption) and created is
// true so the caller can persist the profile.
func (s *Scheduler) LoadOrCreate(store storage.DayStore, user *models.User, date time.Time) (rec models.DayRecord, created bool, err error) {
	dateStr := utils.DateString(date)

	rec, err = store.GetDay(user.ID, dateStr)
	if err == nil {
		return rec, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.DayRecord{}, false, err
	}

	routine := user.Routine()
	missed, err := CollectMissed(store, user.ID, date)
	if err != nil {
		return models.DayRecord{}, false, err
	}
	routine.MissedSlots = mergeMissed(routine.MissedSlots, missed)

	slots, err := s.GenerateRoutine(date, user.EffectiveClassLevel(), user.Stream, routine)
	if err != nil {
		return models.DayRecord{}, false, err
	}
	if date.Weekday() == time.Sunday {
		routine.MissedSlots = []models.RoutineSlot{}
	}

	rec = models.DayRecord{
		Version:   constants.DayRecordVersion,
		UserID:    user.ID,
		Date:      dateStr,
		Slots:     slots,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := store.SaveDay(rec); err != nil {
		return models.DayRecord{}, false, fmt.Errorf("failed to save routine for %s: %w", dateStr, err)
	}
	logger.Debug("Generated routine", "user", user.ID, "date", dateStr, "slots", len(slots))
	return rec, true, nil
}

// CollectMissed returns the uncompleted slots of the most recent stored day
// before date, looking back at most MissedLookbackDays days. Returned slots are
// renamed so they cannot clash with the ids of the day they are carried into.
func CollectMissed(store storage.DayStore, userID string, date time.Time) ([]models.RoutineSlot, error) {
	dates, err := store.ListDays(userID)
	if err != nil {
		return nil, err
	}

	today := utils.DateString(date)
	oldest := utils.DateString(date.AddDate(0, 0, -constants.MissedLookbackDays))
	var day string
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i] < today && dates[i] >= oldest {
			day = dates[i]
			break
		}
	}
	if day == "" {
		return nil, nil
	}

	rec, err := store.GetDay(userID, day)
	if err != nil {
		return nil, err
	}
	var missed []models.RoutineSlot
	for _, slot := range rec.Slots {
		if slot.IsCompleted {
			continue
		}
		if !strings.HasPrefix(slot.ID, constants.MissedSlotIDPrefix) {
			slot.ID = constants.MissedSlotIDPrefix + day + "-" + slot.ID
		}
		slot.CompletedAt = nil
		missed = append(missed, slot)
	}
	return missed, nil
}

func mergeMissed(existing, added []models.RoutineSlot) []models.RoutineSlot {
	out := models.CloneSlots(existing)
	if out == nil {
		out = []models.RoutineSlot{}
	}
	seen := make(map[string]bool, len(out))
	for _, s := range out {
		seen[s.ID] = true
	}
	for _, s := range added {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
