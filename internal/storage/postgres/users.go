package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

func (s *Store) GetUser(id string) (models.User, error) {
	if s.db == nil {
		return models.User{}, storage.ErrNotInitialized
	}

	var (
		user      models.User
		routine   []byte
		updatedAt time.Time
	)
	err := s.db.QueryRow(`
		SELECT id, name, class_level, stream, study_routine, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.Name, &user.ClassLevel, &user.Stream, &routine, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	if len(routine) > 0 {
		var r models.StudyRoutine
		if err := json.Unmarshal(routine, &r); err != nil {
			return models.User{}, fmt.Errorf("failed to parse study routine for %s: %w", id, err)
		}
		user.StudyRoutine = &r
	}
	user.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return user, nil
}

// SaveUser upserts the whole profile; the last write wins.
func (s *Store) SaveUser(user models.User) error {
	if s.db == nil {
		return storage.ErrNotInitialized
	}

	var routine []byte
	if user.StudyRoutine != nil {
		var err error
		routine, err = json.Marshal(user.StudyRoutine)
		if err != nil {
			return err
		}
	}

	_, err := s.db.Exec(`
		INSERT INTO users (id, name, class_level, stream, study_routine, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			class_level = EXCLUDED.class_level,
			stream = EXCLUDED.stream,
			study_routine = EXCLUDED.study_routine,
			updated_at = EXCLUDED.updated_at`,
		user.ID, user.Name, user.ClassLevel, user.Stream, nullableJSON(routine))
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", user.ID, err)
	}
	return nil
}

func nullableJSON(b []byte) interface{} {
	if b == nil {
		return nil
	}
	return string(b)
}
