package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/studyday/internal/logger"
	"github.com/julianstephens/studyday/internal/utils"
)

type CompleteCmd struct {
	ID string `arg:"" help:"Slot id to mark done."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}
	slot, err := svc.Complete(c.ID)
	if err != nil {
		return err
	}
	ctx.printf("Completed %s %s (%s)\n", slot.StartTime, svc.SubjectName(slot.SubjectID), slot.Topic)
	ctx.printf("%s\n", formatStats(svc.Stats()))
	return nil
}

type AddCmd struct {
	Time    string `help:"Start time (HH:MM)." required:""`
	Subject string `help:"Subject id, see 'studyday subjects'." required:""`
}

func (c *AddCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}

	subject := strings.ToLower(strings.TrimSpace(c.Subject))
	var ids []string
	known := false
	for _, s := range svc.AddableSubjects() {
		ids = append(ids, s.ID)
		if s.ID == subject {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown subject %q (choose from: %s)", c.Subject, strings.Join(ids, ", "))
	}
	if !utils.IsClock(strings.TrimSpace(c.Time)) {
		logger.Warn("Adding slot with a non HH:MM start time", "time", c.Time)
		ctx.printf("Warning: %q is not HH:MM; the slot may sort out of order\n", c.Time)
	}

	slot, err := svc.AddCustomSlot(c.Time, subject)
	if err != nil {
		return err
	}
	ctx.printf("Added %s %s as %s\n", slot.StartTime, svc.SubjectName(slot.SubjectID), slot.ID)
	return nil
}

type EditCmd struct {
	ID   string `arg:"" help:"Slot id to move."`
	Time string `arg:"" help:"New start time (HH:MM)."`
}

func (c *EditCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}
	if !utils.IsClock(strings.TrimSpace(c.Time)) {
		logger.Warn("Editing slot with a non HH:MM start time", "slot", c.ID, "time", c.Time)
		ctx.printf("Warning: %q is not HH:MM; the slot may sort out of order\n", c.Time)
	}
	if err := svc.EditTime(c.ID, c.Time); err != nil {
		return err
	}
	slot, err := svc.Slot(c.ID)
	if err != nil {
		return err
	}
	ctx.printf("Moved %s to %s\n", slot.ID, utils.ClockRange(slot.StartTime, slot.DurationMinutes))
	return nil
}

type SubjectsCmd struct{}

func (c *SubjectsCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}
	user := svc.User()
	ctx.printf("Subjects for class %s", user.EffectiveClassLevel())
	if user.Stream != "" {
		ctx.printf(" (%s)", user.Stream)
	}
	ctx.printf(":\n")
	for _, s := range svc.AddableSubjects() {
		ctx.printf("  %-16s %s\n", s.ID, s.Name)
	}
	return nil
}
