package models

type ActivityType string

const (
	ActivityLearn    ActivityType = "LEARN"
	ActivityPractice ActivityType = "PRACTICE"
	ActivityRevision ActivityType = "REVISION"
	ActivityTest     ActivityType = "TEST"
	ActivityCatchUp  ActivityType = "CATCH_UP"
)

// RoutineSlot is one time-boxed study activity of a day.
type RoutineSlot struct {
	ID              string       `json:"id"`
	StartTime       string       `json:"startTime"` // HH:MM format
	DurationMinutes int          `json:"durationMinutes"`
	SubjectID       string       `json:"subjectId"`
	Topic           string       `json:"topic"`
	ActivityType    ActivityType `json:"activityType"`
	IsCompleted     bool         `json:"isCompleted"`
	CompletedAt     *string      `json:"completedAt,omitempty"` // RFC3339 timestamp
	IsCustom        bool         `json:"isCustom,omitempty"`
}

// DayRecord is the persisted value for one (user, date) key. It carries its own
// identity so a record read back under the wrong key can be detected.
type DayRecord struct {
	Version   int           `json:"version"`
	UserID    string        `json:"userId"`
	Date      string        `json:"date"` // YYYY-MM-DD format
	Slots     []RoutineSlot `json:"slots"`
	UpdatedAt string        `json:"updatedAt"` // RFC3339 timestamp
}

// CloneSlots returns a deep copy of slots so callers can mutate the result freely.
func CloneSlots(slots []RoutineSlot) []RoutineSlot {
	if slots == nil {
		return nil
	}
	out := make([]RoutineSlot, len(slots))
	for i, s := range slots {
		if s.CompletedAt != nil {
			ts := *s.CompletedAt
			s.CompletedAt = &ts
		}
		out[i] = s
	}
	return out
}
