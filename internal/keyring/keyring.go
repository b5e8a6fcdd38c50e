// Package keyring keeps the remote connection string in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/studyday/internal/constants"
)

var (
	ErrNotFound    = errors.New("connection string not found in keyring")
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Secrets addresses one keyring entry.
type Secrets struct {
	service string
	account string
}

// Remote returns the entry holding the remote profile store connection string.
func Remote() Secrets {
	return Secrets{service: constants.AppName, account: constants.DefaultKeyringUser}
}

func (s Secrets) Get() (string, error) {
	value, err := keyring.Get(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

func (s Secrets) Set(value string) error {
	if value == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(s.service, s.account, value); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

func (s Secrets) Delete() error {
	err := keyring.Delete(s.service, s.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}
