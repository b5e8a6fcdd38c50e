package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/studyday/internal/backup"
	"github.com/julianstephens/studyday/internal/config"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/notifier"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/scheduler"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/storage/postgres"
	"github.com/julianstephens/studyday/internal/utils"
)

// RemoteOpener connects to the remote profile store.
type RemoteOpener func(connStr string) (RemoteStore, error)

type RemoteStore interface {
	storage.ProfileStore
	Close() error
}

type Context struct {
	Store      storage.Provider
	Scheduler  *scheduler.Scheduler
	Notifier   notifier.Notifier
	UserFlag   string
	RemoteConn string
	Out        io.Writer
	In         io.Reader
	Now        func() time.Time
	OpenRemote RemoteOpener

	remote     RemoteStore
	remoteDone bool
}

// OpenPostgres is the default RemoteOpener.
func OpenPostgres(connStr string) (RemoteStore, error) {
	store := postgres.New(connStr)
	if err := store.Init(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

// Remote returns the connected remote store, or nil when none is configured or
// it cannot be reached. Failures are logged and the command carries on locally.
func (c *Context) Remote() RemoteStore {
	if c.remoteDone {
		return c.remote
	}
	c.remoteDone = true
	if c.RemoteConn == "" || c.OpenRemote == nil {
		return nil
	}
	store, err := c.OpenRemote(c.RemoteConn)
	if err != nil {
		logger.Warn("Remote profile store unavailable", "error", err)
		return nil
	}
	c.remote = store
	return store
}

// Close releases the remote connection and the local store.
func (c *Context) Close() error {
	var errs []error
	if c.remote != nil {
		errs = append(errs, c.remote.Close())
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	return errors.Join(errs...)
}

// UserID resolves the active profile from --user, STUDYDAY_USER or the stored default.
func (c *Context) UserID() (string, error) {
	settings, err := c.Store.GetSettings()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}
	return config.ResolveUser(c.UserFlag, settings.CurrentUserID), nil
}

// Location returns the configured timezone.
func (c *Context) Location() *time.Location {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Local
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using local time", "timezone", settings.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Routine loads today's routine for the active profile.
func (c *Context) Routine() (*routine.Service, error) {
	userID, err := c.UserID()
	if err != nil {
		return nil, err
	}

	opts := []routine.Option{routine.WithLocation(c.Location())}
	if c.Now != nil {
		opts = append(opts, routine.WithClock(c.Now))
	}
	var remote storage.ProfileStore
	if r := c.Remote(); r != nil {
		remote = r
	}

	svc := routine.NewService(c.Store, remote, c.Scheduler, opts...)
	if err := svc.Load(userID); err != nil {
		return nil, err
	}
	return svc, nil
}

// PerformAutomaticBackup snapshots the SQLite store; failures only warn.
func (c *Context) PerformAutomaticBackup() {
	if storage.IsJSONPath(c.Store.GetConfigPath()) {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
