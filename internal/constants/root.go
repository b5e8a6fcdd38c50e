package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "studyday"
	DefaultKeyringUser = "remote-connection"
	DefaultConfigPath  = "~/.config/studyday/studyday.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment
	EnvUser     = "STUDYDAY_USER"
	EnvRemoteDB = "STUDYDAY_REMOTE_DB"
	EnvFileName = ".env"

	// Storage
	RoutineKeyPrefix = "routine_"
	DayRecordVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "studyday-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "studyday-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.studyday"
	TrayProcessPrefix      = "studyday-tray"
	TimerExpiredMessage    = "⏰ Time's Up! Take a 10 min break."

	// Timer
	TimerTickInterval = time.Second

	// Day headings
	RoutineTitle     = "Daily Routine"
	CatchUpTitle     = "Sunday Catch-Up"
	NoBacklogMessage = "🎉 No backlog! Enjoy your holiday."
	EmptyDayMessage  = "Nothing scheduled today."
	SlotDoneNotice   = "✓ That slot is already completed."
)

// Session States
const (
	StateRoutine SessionState = iota
	StateAddSlot
	StateEditTime
)
