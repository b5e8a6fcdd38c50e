package routine

import (
	"math"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
)

type Stats struct {
	Completed      int
	Total          int
	Percent        int
	Streak         int
	BonusHolidays  int
	MinutesPlanned int
	MinutesStudied int
	TargetMinutes  int
}

// ComputeStats summarises slots against the routine. routine may be nil.
func ComputeStats(slots []models.RoutineSlot, routine *models.StudyRoutine) Stats {
	st := Stats{
		Total:         len(slots),
		TargetMinutes: constants.DailyTargetHours * 60,
	}
	for _, slot := range slots {
		st.MinutesPlanned += slot.DurationMinutes
		if slot.IsCompleted {
			st.Completed++
			st.MinutesStudied += slot.DurationMinutes
		}
	}

	total := st.Total
	if total == 0 {
		total = 1
	}
	st.Percent = int(math.Round(float64(st.Completed) / float64(total) * 100))

	if routine != nil {
		st.Streak = routine.Streak
		st.BonusHolidays = routine.BonusHolidays
	}
	return st
}
