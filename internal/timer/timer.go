// Package timer implements the single per-slot countdown. At most one slot is
// active at a time.
package timer

import (
	"context"
	"time"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/utils"
)

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Timer is not safe for concurrent use; a session drives it from one goroutine.
type Timer struct {
	slotID    string
	remaining int
}

func New() *Timer {
	return &Timer{}
}

func (t *Timer) State() State {
	if t.slotID == "" {
		return Idle
	}
	return Running
}

// Active returns the running slot id, or "" when idle.
func (t *Timer) Active() string {
	return t.slotID
}

// Remaining returns the seconds left on the running countdown.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Toggle starts a countdown of minutes for slotID, replacing any other running
// slot. Toggling the running slot stops it and discards the remaining time.
// It reports whether the timer is running afterwards.
func (t *Timer) Toggle(slotID string, minutes int) bool {
	if t.slotID != "" && t.slotID == slotID {
		t.Stop()
		return false
	}
	if minutes <= 0 {
		minutes = constants.DefaultSlotMinutes
	}
	t.slotID = slotID
	t.remaining = minutes * 60
	return true
}

func (t *Timer) Stop() {
	t.slotID = ""
	t.remaining = 0
}

// Tick advances the countdown by one second. When it reaches zero the timer
// goes idle and the expired slot id is returned.
func (t *Timer) Tick() (expired bool, slotID string) {
	if t.slotID == "" {
		return false, ""
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return false, ""
	}
	slotID = t.slotID
	t.Stop()
	return true, slotID
}

// FormatRemaining renders the remaining time as m:ss.
func (t *Timer) FormatRemaining() string {
	return utils.FormatCountdown(t.remaining)
}

// Run ticks t once per interval until the countdown expires or ctx is done.
// onTick may be nil. onExpire is called once with the expired slot id.
func Run(ctx context.Context, t *Timer, interval time.Duration, onTick func(remaining int), onExpire func(slotID string)) error {
	if interval <= 0 {
		interval = constants.TimerTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.State() == Idle {
				return nil
			}
			expired, slotID := t.Tick()
			if expired {
				if onExpire != nil {
					onExpire(slotID)
				}
				return nil
			}
			if onTick != nil {
				onTick(t.Remaining())
			}
		}
	}
}
