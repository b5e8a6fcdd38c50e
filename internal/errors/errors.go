// Package errors renders command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/studyday/internal/keyring"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/migration"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/scheduler"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/storage/postgres"
)

// exit is swapped in tests
var exit = os.Exit

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "run 'studyday init' to create a profile"},
	{routine.ErrProfileNotFound, "run 'studyday init' or pass --user with an existing profile id"},
	{routine.ErrSlotNotFound, "run 'studyday today' to list today's slot ids"},
	{routine.ErrSlotCompleted, "pick an open slot from 'studyday today'"},
	{routine.ErrMissingTime, "pass --time HH:MM"},
	{routine.ErrMissingSubject, "pass --subject; 'studyday subjects' lists the choices"},
	{scheduler.ErrNoSubjects, "check the class level and stream with 'studyday profile'"},
	{storage.ErrKeyCollision, "the stored day is damaged; restore one with 'studyday backup restore'"},
	{migration.ErrSchemaTooNew, "upgrade studyday to open this database"},
	{postgres.ErrEmbeddedCredentials, "keep the password in ~/.pgpass or PGPASSWORD instead"},
	{keyring.ErrUnavailable, "pass --remote or set STUDYDAY_REMOTE_DB instead of using the keyring"},
}

// Hint returns a follow-up suggestion for known failures, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Report logs err and writes it to w. It returns false when err is nil.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return true
}

// Fatal reports err on stderr and exits with code 1
func Fatal(err error) {
	if Report(os.Stderr, err) {
		exit(1)
	}
}

// Fatalf formats a message, reports it on stderr and exits with code 1
func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Errorf(format, args...))
}
