package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

func (s *Store) GetDay(userID, date string) (models.DayRecord, error) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM routine_days WHERE key = ?", storage.RoutineKey(userID, date)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DayRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return models.DayRecord{}, err
	}
	return storage.DecodeDay(userID, date, []byte(payload))
}

// SaveDay replaces the whole record stored under the record's key.
func (s *Store) SaveDay(rec models.DayRecord) error {
	if rec.Version == 0 {
		rec.Version = constants.DayRecordVersion
	}
	if rec.UpdatedAt == "" {
		rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := storage.EncodeDay(rec)
	if err != nil {
		return err
	}

	key := storage.RoutineKey(rec.UserID, rec.Date)
	_, err = s.db.Exec(`
		INSERT INTO routine_days (key, user_id, date, version, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		key, rec.UserID, rec.Date, rec.Version, string(payload), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Store) ListDays(userID string) ([]string, error) {
	rows, err := s.db.Query("SELECT date FROM routine_days WHERE user_id = ? ORDER BY date ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}
