package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/studyday/internal/keyring"
	"github.com/julianstephens/studyday/internal/storage/postgres"
)

// SecretStore is satisfied by keyring.Secrets.
type SecretStore interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
}

// remoteSecrets is replaced in tests.
var remoteSecrets = func() SecretStore { return keyring.Remote() }

type RemoteCmd struct {
	Set    RemoteSetCmd    `cmd:"" help:"Store the remote PostgreSQL connection string in the OS keyring."`
	Delete RemoteDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Push   RemotePushCmd   `cmd:"" help:"Push the active profile to the remote store."`
}

type RemoteSetCmd struct {
	ConnString string `arg:"" help:"PostgreSQL URI or DSN without a password."`
}

func (c *RemoteSetCmd) Run(ctx *Context) error {
	if err := postgres.ValidateConnString(c.ConnString); err != nil {
		return err
	}
	if err := remoteSecrets().Set(c.ConnString); err != nil {
		return err
	}
	ctx.printf("Connection string stored in the OS keyring.\n")
	return nil
}

type RemoteDeleteCmd struct{}

func (c *RemoteDeleteCmd) Run(ctx *Context) error {
	err := remoteSecrets().Delete()
	if errors.Is(err, keyring.ErrNotFound) {
		ctx.printf("No connection string stored.\n")
		return nil
	}
	if err != nil {
		return err
	}
	ctx.printf("Connection string removed from the OS keyring.\n")
	return nil
}

type RemotePushCmd struct{}

func (c *RemotePushCmd) Run(ctx *Context) error {
	if ctx.RemoteConn == "" {
		return errors.New("no remote configured; pass --remote, set STUDYDAY_REMOTE_DB or run 'studyday remote set'")
	}
	if ctx.Remote() == nil {
		return errors.New("remote store unavailable, check the log for details")
	}
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}
	if err := svc.Push(); err != nil {
		return fmt.Errorf("failed to push profile: %w", err)
	}
	ctx.printf("Pushed profile %s to remote.\n", svc.User().ID)
	return nil
}
