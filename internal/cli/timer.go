package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/timer"
	"github.com/julianstephens/studyday/internal/utils"
)

// timerContext is replaced in tests.
var timerContext = func() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

type TimerCmd struct {
	ID       string        `arg:"" help:"Slot id to time."`
	Interval time.Duration `hidden:"" default:"1s" help:"Tick interval."`
}

func (c *TimerCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}
	slot, err := svc.Slot(c.ID)
	if err != nil {
		return err
	}
	if slot.IsCompleted {
		return fmt.Errorf("%s: %w", slot.ID, routine.ErrSlotCompleted)
	}

	t := timer.New()
	t.Toggle(slot.ID, slot.DurationMinutes)
	ctx.printf("Timer started for %s %s: %s\n", slot.StartTime, svc.SubjectName(slot.SubjectID), t.FormatRemaining())

	runCtx, stop := timerContext()
	defer stop()

	onTick := func(remaining int) {
		if remaining%60 == 0 {
			ctx.printf("%s remaining\n", utils.FormatCountdown(remaining))
		}
	}
	onExpire := func(slotID string) {
		logger.Info("Timer expired", "slot", slotID)
		if ctx.Notifier == nil {
			ctx.printf("%s\n", constants.TimerExpiredMessage)
			return
		}
		if err := ctx.Notifier.Notify(constants.TimerExpiredMessage); err != nil {
			logger.Warn("Failed to deliver timer notification", "error", err)
		}
	}

	err = timer.Run(runCtx, t, c.Interval, onTick, onExpire)
	if errors.Is(err, context.Canceled) {
		ctx.printf("Timer stopped at %s\n", t.FormatRemaining())
		return nil
	}
	return err
}
