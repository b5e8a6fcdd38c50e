package models

import "github.com/julianstephens/studyday/internal/constants"

// Subject is an entry of the subject catalog.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DailyStat struct {
	Completed      int `json:"completed"`
	Total          int `json:"total"`
	MinutesStudied int `json:"minutesStudied"`
}

type Preferences struct {
	StartTime         string         `json:"startTime"` // HH:MM format
	SlotsPerDay       int            `json:"slotsPerDay"`
	DifficultyRatings map[string]int `json:"difficultyRatings"`
}

// StudyRoutine is the long-lived routine state kept on the user profile.
type StudyRoutine struct {
	Streak        int                  `json:"streak"`
	BonusHolidays int                  `json:"bonusHolidays"`
	LastStudyDate string               `json:"lastStudyDate"` // YYYY-MM-DD format
	MissedSlots   []RoutineSlot        `json:"missedSlots"`
	CustomSlots   []RoutineSlot        `json:"customSlots"`
	DailyStats    map[string]DailyStat `json:"dailyStats"`
	Preferences   Preferences          `json:"preferences"`
}

type User struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ClassLevel   string        `json:"classLevel"`
	Stream       string        `json:"stream,omitempty"`
	StudyRoutine *StudyRoutine `json:"studyRoutine,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"` // RFC3339 timestamp
}

// DefaultStudyRoutine returns the routine state of a profile that has never studied.
func DefaultStudyRoutine() StudyRoutine {
	return StudyRoutine{
		MissedSlots: []RoutineSlot{},
		CustomSlots: []RoutineSlot{},
		DailyStats:  map[string]DailyStat{},
		Preferences: Preferences{
			StartTime:         constants.DefaultStartTime,
			SlotsPerDay:       constants.DefaultSlotsPerDay,
			DifficultyRatings: map[string]int{},
		},
	}
}

// EffectiveClassLevel returns the class level used for scheduling.
func (u User) EffectiveClassLevel() string {
	if u.ClassLevel == "" {
		return constants.DefaultClassLevel
	}
	return u.ClassLevel
}

// Routine returns the profile routine, initialising it with defaults when absent.
func (u *User) Routine() *StudyRoutine {
	if u.StudyRoutine == nil {
		r := DefaultStudyRoutine()
		u.StudyRoutine = &r
	}
	if u.StudyRoutine.DailyStats == nil {
		u.StudyRoutine.DailyStats = map[string]DailyStat{}
	}
	return u.StudyRoutine
}

// Settings represents application-wide settings
type Settings struct {
	CurrentUserID string `json:"current_user_id"` // profile used when --user is not given
	Timezone      string `json:"timezone"`        // IANA timezone name, or "Local" for system timezone
}
