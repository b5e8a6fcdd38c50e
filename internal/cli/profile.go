package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/utils"
)

var ErrInvalidTimezone = errors.New("invalid timezone")

type ProfileCmd struct {
	Name     *string `help:"Change the student name."`
	Class    *string `help:"Change the class level."`
	Stream   *string `help:"Change the stream."`
	Timezone *string `help:"Change the IANA timezone that decides the study day (\"Local\" for the system timezone)."`
}

func (c *ProfileCmd) Run(ctx *Context) error {
	if c.Timezone != nil {
		if err := saveTimezone(ctx, *c.Timezone); err != nil {
			return err
		}
	}

	svc, err := ctx.Routine()
	if err != nil {
		return err
	}

	if c.Name != nil || c.Class != nil || c.Stream != nil {
		if err := svc.UpdateProfile(routine.ProfileUpdate{
			Name:       c.Name,
			ClassLevel: c.Class,
			Stream:     c.Stream,
		}); err != nil {
			return err
		}
		ctx.printf("Profile updated. Class and stream changes apply from the next day.\n")
	}

	user := svc.User()
	r := user.Routine()
	ctx.printf("ID:             %s\n", user.ID)
	ctx.printf("Name:           %s\n", user.Name)
	ctx.printf("Class:          %s\n", user.EffectiveClassLevel())
	if user.Stream != "" {
		ctx.printf("Stream:         %s\n", user.Stream)
	}
	if settings, err := ctx.Store.GetSettings(); err == nil {
		ctx.printf("Timezone:       %s\n", settings.Timezone)
	}
	ctx.printf("Streak:         %d\n", r.Streak)
	ctx.printf("Bonus holidays: %d\n", r.BonusHolidays)
	if r.LastStudyDate != "" {
		ctx.printf("Last studied:   %s\n", r.LastStudyDate)
	}
	ctx.printf("Missed slots:   %d\n", len(r.MissedSlots))
	return nil
}

// saveTimezone validates tz and stores it in settings.
func saveTimezone(ctx *Context, tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	settings.Timezone = tz
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.printf("Timezone set to %s\n", tz)
	return nil
}
