package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/studyday/internal/cli"
	"github.com/julianstephens/studyday/internal/config"
	"github.com/julianstephens/studyday/internal/constants"
	apperrors "github.com/julianstephens/studyday/internal/errors"
	"github.com/julianstephens/studyday/internal/keyring"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/notifier"
	"github.com/julianstephens/studyday/internal/scheduler"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/storage/jsonfile"
	"github.com/julianstephens/studyday/internal/storage/postgres"
	"github.com/julianstephens/studyday/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store path. A .json path selects the JSON file store." type:"string" default:"${config}"`
	User    string `help:"Profile id to use." env:"STUDYDAY_USER"`
	Remote  string `help:"PostgreSQL connection string for the remote profile store. Passwords must not be embedded; use ~/.pgpass or PGPASSWORD." env:"STUDYDAY_REMOTE_DB"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init      cli.InitCmd     `cmd:"" help:"Create a profile and initialize storage."`
	Tui       cli.TuiCmd      `cmd:"" help:"Launch the interactive routine screen." default:"1"`
	Today     cli.TodayCmd    `cmd:"" help:"Show today's routine."`
	Complete  cli.CompleteCmd `cmd:"" help:"Mark a slot as done."`
	Add       cli.AddCmd      `cmd:"" help:"Add a custom study slot to today."`
	Edit      cli.EditCmd     `cmd:"" help:"Change a slot's start time."`
	Timer     cli.TimerCmd    `cmd:"" help:"Run the countdown for a slot."`
	Subjects  cli.SubjectsCmd `cmd:"" help:"List the subjects for the profile."`
	Profile   cli.ProfileCmd  `cmd:"" help:"Show or update the profile."`
	Validate  cli.ValidateCmd `cmd:"" help:"Check today's slots for conflicts."`
	Backup    cli.BackupCmd   `cmd:"" help:"Manage database backups."`
	RemoteCmd cli.RemoteCmd   `cmd:"" name:"remote" help:"Manage the remote profile store."`
}

func main() {
	// Environment from the default config dir has to be in place before kong
	// reads env-backed flags.
	if err := config.LoadEnv(config.DefaultDir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily study routine planner for school students"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	configPath, err := config.ExpandPath(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	configDir := filepath.Dir(configPath)
	if configDir != config.DefaultDir() {
		if err := config.LoadEnv(configDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	var store storage.Provider
	if storage.IsJSONPath(configPath) {
		store = jsonfile.NewStore(configPath)
	} else {
		store = sqlite.NewStore(configPath)
	}

	// Keyring management runs without a loaded store or a resolved remote so a
	// bad stored value can be replaced.
	command := ctx.Command()
	manageSecret := strings.HasPrefix(command, "remote set") || strings.HasPrefix(command, "remote delete")
	if !manageSecret && !strings.HasPrefix(command, "init") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	var remoteConn string
	if !manageSecret {
		conn, source, err := config.ResolveRemote(CLI.Remote, keyring.Remote())
		if err != nil {
			apperrors.Fatal(err)
		}
		if conn != "" {
			if err := postgres.ValidateConnString(conn); err != nil {
				apperrors.Fatal(fmt.Errorf("remote connection string from %s: %w", source, err))
			}
			logger.Debug("Remote profile store configured", "source", source)
		}
		remoteConn = conn
	}

	appCtx := &cli.Context{
		Store:      store,
		Scheduler:  scheduler.New(),
		Notifier:   notifier.New(),
		UserFlag:   CLI.User,
		RemoteConn: remoteConn,
		OpenRemote: cli.OpenPostgres,
		Out:        os.Stdout,
		In:         os.Stdin,
	}

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close stores", "error", closeErr)
	}
	apperrors.Fatal(err)
}
