// Package config resolves where studyday keeps its data and which profile and
// remote store a command runs against.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/keyring"
	"github.com/julianstephens/studyday/internal/logger"
)

var userHomeDirFunc = os.UserHomeDir

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := userHomeDirFunc()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// DefaultDir is the directory of the default store path.
func DefaultDir() string {
	path, err := ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return ""
	}
	return filepath.Dir(path)
}

// LoadEnv reads dir/.env into the process environment. Variables already set
// take precedence and a missing file is not an error.
func LoadEnv(dir string) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, constants.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debug("Loaded environment file", "path", path)
	return nil
}

// Source names where a resolved value came from.
type Source string

const (
	SourceNone    Source = ""
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// SecretGetter is satisfied by keyring.Secrets.
type SecretGetter interface {
	Get() (string, error)
}

// ResolveRemote picks the remote connection string from the flag, then the
// environment, then the keyring. An empty result means no remote is configured.
func ResolveRemote(flag string, secrets SecretGetter) (string, Source, error) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, SourceFlag, nil
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvRemoteDB)); v != "" {
		return v, SourceEnv, nil
	}
	if secrets == nil {
		return "", SourceNone, nil
	}

	v, err := secrets.Get()
	switch {
	case err == nil:
		return v, SourceKeyring, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", SourceNone, nil
	case errors.Is(err, keyring.ErrUnavailable):
		logger.Debug("Keyring unavailable, continuing without remote", "error", err)
		return "", SourceNone, nil
	default:
		return "", SourceNone, err
	}
}

// ResolveUser picks the active profile id from the flag, then the environment,
// then the stored default.
func ResolveUser(flag, stored string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvUser)); v != "" {
		return v
	}
	return stored
}
