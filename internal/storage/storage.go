package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrKeyCollision   = errors.New("stored record does not match its key")
	ErrNotInitialized = errors.New("storage not initialized, run 'studyday init' first")
)

// RoutineKey returns the keyed-store key for a user's day.
func RoutineKey(userID, date string) string {
	return constants.RoutineKeyPrefix + userID + "_" + date
}

// EncodeDay serialises a record for storage.
func EncodeDay(rec models.DayRecord) ([]byte, error) {
	if rec.Version == 0 {
		rec.Version = constants.DayRecordVersion
	}
	if rec.Slots == nil {
		rec.Slots = []models.RoutineSlot{}
	}
	return json.Marshal(rec)
}

// DecodeDay parses a stored payload and checks it belongs to the requested key.
func DecodeDay(userID, date string, payload []byte) (models.DayRecord, error) {
	key := RoutineKey(userID, date)
	var rec models.DayRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return models.DayRecord{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if rec.Version > constants.DayRecordVersion {
		return models.DayRecord{}, fmt.Errorf("%s has version %d, newer than supported %d", key, rec.Version, constants.DayRecordVersion)
	}
	if rec.UserID != userID || rec.Date != date {
		return models.DayRecord{}, fmt.Errorf("%s holds %s/%s: %w", key, rec.UserID, rec.Date, ErrKeyCollision)
	}
	if rec.Slots == nil {
		rec.Slots = []models.RoutineSlot{}
	}
	return rec, nil
}

// IsJSONPath reports whether a config path selects the JSON file backend.
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
