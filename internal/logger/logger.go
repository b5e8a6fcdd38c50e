// Package logger writes studyday's diagnostics to a rotated file under the
// config directory. The terminal belongs to the TUI, so stderr only receives
// entries in debug mode.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/studyday/internal/constants"
)

var (
	// Logger is the global logger instance. Nil until Init.
	Logger *log.Logger

	// base is Logger without session fields.
	base *log.Logger
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
}

func rotatingFile(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// Init points the global logger at <ConfigDir>/logs/studyday.log.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var w io.Writer = rotatingFile(dir)
	opts := log.Options{
		ReportTimestamp: true,
		Level:           log.WarnLevel,
		Prefix:          constants.AppName,
	}
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, w)
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}

	base = log.NewWithOptions(w, opts)
	Logger = base
	return nil
}

// SetSession tags every later entry with the active profile and study date.
// Calling it again replaces the previous tags.
func SetSession(userID, date string) {
	if base == nil {
		return
	}
	Logger = base.With("user", userID, "date", date)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Helper()
		Logger.Error(msg, keyvals...)
	}
}
