package constants

const (
	// Defaults applied to a profile that has never studied
	DefaultClassLevel  = "10"
	DefaultStartTime   = "06:00"
	DefaultSlotsPerDay = 6
	DefaultSlotMinutes = 60
	DefaultTimezone    = "Local" // system local timezone
	DailyTargetHours   = 6

	// BonusHolidayEvery is the number of streak days that earns one bonus holiday
	BonusHolidayEvery  = 25
	MissedLookbackDays = 6

	// Slot identifiers and labels
	CustomSlotIDPrefix = "custom-"
	MissedSlotIDPrefix = "missed-"
	CustomSlotTopic    = "Custom Study Slot"

	// Pseudo subjects that are not part of the catalog
	SubjectCurrentAffairs = "current_affairs"
	SubjectSelfAnalysis   = "self_analysis"
	SubjectRevision       = "revision"
	SubjectExtra          = "extra"
)
