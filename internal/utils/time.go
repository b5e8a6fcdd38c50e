package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/studyday/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// DateString formats t as a storage date (YYYY-MM-DD) in t's own location.
func DateString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// IsClock reports whether s is a zero-padded 24-hour HH:MM value. Lexicographic
// ordering of such values matches chronological ordering.
func IsClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

// ClockToMinutes returns the minutes from midnight of an HH:MM value.
func ClockToMinutes(s string) (int, error) {
	if !IsClock(s) {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}
	t, _ := time.Parse(constants.TimeFormat, s)
	return t.Hour()*60 + t.Minute(), nil
}

// FormatCountdown renders a remaining number of seconds as m:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ClockRange renders "HH:MM - HH:MM" for a slot; malformed starts are shown as-is.
func ClockRange(start string, durationMinutes int) string {
	startMin, err := ClockToMinutes(start)
	if err != nil {
		return start
	}
	end := (startMin + durationMinutes) % (24 * 60)
	return fmt.Sprintf("%s - %02d:%02d", start, end/60, end%60)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
