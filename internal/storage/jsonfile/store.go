// Package jsonfile is a single-document JSON backend for the local store. Every
// write rewrites the document through a temp file and rename.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/storage"
)

const documentVersion = 1

type document struct {
	Version  int                        `json:"version"`
	Settings models.Settings            `json:"settings"`
	Routines map[string]json.RawMessage `json:"routines"` // routine key -> DayRecord
	Profiles map[string]models.User     `json:"profiles"`
}

type Store struct {
	path string
	doc  *document
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &document{
		Version:  documentVersion,
		Settings: models.Settings{Timezone: constants.DefaultTimezone},
	}
	s.doc.ensureMaps()
	return s.save()
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage %s: %w", s.path, err)
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	doc.ensureMaps()
	s.doc = doc
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (d *document) ensureMaps() {
	if d.Routines == nil {
		d.Routines = make(map[string]json.RawMessage)
	}
	if d.Profiles == nil {
		d.Profiles = make(map[string]models.User)
	}
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *Store) loaded() error {
	if s.doc == nil {
		return storage.ErrNotInitialized
	}
	return nil
}

func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.doc.Settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *Store) GetDay(userID, date string) (models.DayRecord, error) {
	if err := s.loaded(); err != nil {
		return models.DayRecord{}, err
	}
	payload, ok := s.doc.Routines[storage.RoutineKey(userID, date)]
	if !ok {
		return models.DayRecord{}, storage.ErrNotFound
	}
	return storage.DecodeDay(userID, date, payload)
}

func (s *Store) SaveDay(rec models.DayRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if rec.UpdatedAt == "" {
		rec.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := storage.EncodeDay(rec)
	if err != nil {
		return err
	}
	s.doc.Routines[storage.RoutineKey(rec.UserID, rec.Date)] = payload
	return s.save()
}

func (s *Store) ListDays(userID string) ([]string, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	prefix := storage.RoutineKey(userID, "")
	var dates []string
	for key := range s.doc.Routines {
		date, ok := strings.CutPrefix(key, prefix)
		if ok && len(date) == len(constants.DateFormat) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	if err := s.loaded(); err != nil {
		return models.User{}, err
	}
	user, ok := s.doc.Profiles[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return cloneUser(user)
}

func (s *Store) SaveUser(user models.User) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if user.UpdatedAt == "" {
		user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	stored, err := cloneUser(user)
	if err != nil {
		return err
	}
	s.doc.Profiles[user.ID] = stored
	return s.save()
}

// cloneUser detaches a profile from the in-memory document.
func cloneUser(user models.User) (models.User, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return models.User{}, err
	}
	var out models.User
	if err := json.Unmarshal(data, &out); err != nil {
		return models.User{}, err
	}
	return out, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
