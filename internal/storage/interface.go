package storage

import "github.com/julianstephens/studyday/internal/models"

// DayStore is the local keyed store holding one DayRecord per (user, date).
type DayStore interface {
	GetDay(userID, date string) (models.DayRecord, error)
	SaveDay(models.DayRecord) error
	// ListDays returns the dates stored for a user in ascending order.
	ListDays(userID string) ([]string, error)
}

// ProfileStore persists whole user profiles. Both the local cache and the remote
// store implement it.
type ProfileStore interface {
	GetUser(id string) (models.User, error)
	SaveUser(models.User) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	DayStore
	ProfileStore

	// Utils
	GetConfigPath() string
}
