package sqlite

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
	var payload string
	err := s.db.QueryRow("SELECT payload FROM profiles WHERE id = ?", id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, storage.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		return models.User{}, fmt.Errorf("failed to parse profile %s: %w", id, err)
	}
	return user, nil
}

func (s *Store) SaveUser(user models.User) error {
	if user.UpdatedAt == "" {
		user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO profiles (id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		user.ID, string(payload), user.UpdatedAt)
	return err
}
