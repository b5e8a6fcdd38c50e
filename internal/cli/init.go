package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyday/internal/catalog"
	"github.com/julianstephens/studyday/internal/constants"
	"github.com/julianstephens/studyday/internal/routine"
	"github.com/julianstephens/studyday/internal/storage"
	"github.com/julianstephens/studyday/internal/utils"
)

type InitCmd struct {
	Name   string `help:"Student name."`
	Class  string `help:"Class level, e.g. 10 or 12."`
	Stream string `help:"Stream for classes 11 and 12 (science, commerce, arts)."`
	Tz     string `name:"timezone" help:"IANA timezone that decides the study day (default: system local)."`
	Force  bool   `help:"Remove the existing store and start over."`
}

// promptProfile is replaced in tests.
var promptProfile = func(c *InitCmd) error {
	streams := []huh.Option[string]{huh.NewOption("None", "")}
	for _, s := range catalog.Streams() {
		streams = append(streams, huh.NewOption(capitalize(string(s)), string(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name),
			huh.NewInput().
				Title("Class").
				Placeholder(constants.DefaultClassLevel).
				Value(&c.Class),
			huh.NewSelect[string]().
				Title("Stream").
				Options(streams...).
				Value(&c.Stream),
		),
	).WithTheme(huh.ThemeDracula())
	return form.Run()
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Tz != "" && !utils.ValidateTimezone(c.Tz) {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Tz)
	}
	if c.Force {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		if err := os.Remove(ctx.Store.GetConfigPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove existing store: %w", err)
		}
	}
	if err := ctx.Store.Init(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if settings.CurrentUserID != "" && !c.Force && c.Name == "" && c.Class == "" && c.Stream == "" {
		ctx.printf("studyday is already initialized at %s (profile %s)\n", ctx.Store.GetConfigPath(), settings.CurrentUserID)
		if c.Tz != "" {
			return saveTimezone(ctx, c.Tz)
		}
		return nil
	}

	if c.Name == "" && c.Class == "" && c.Stream == "" {
		if err := promptProfile(c); err != nil {
			return err
		}
	}

	user := routine.NewProfile(c.Name, c.Class, c.Stream)
	if err := ctx.Store.SaveUser(user); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	settings.CurrentUserID = user.ID
	if c.Tz != "" {
		settings.Timezone = c.Tz
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if remote := ctx.Remote(); remote != nil {
		if err := remote.SaveUser(user); err != nil {
			ctx.printf("Warning: profile not pushed to remote: %v\n", err)
		}
	}

	ctx.printf("Initialized studyday storage at: %s\n", ctx.Store.GetConfigPath())
	ctx.printf("Profile %s (class %s", user.ID, user.ClassLevel)
	if user.Stream != "" {
		ctx.printf(", %s", user.Stream)
	}
	ctx.printf(")\n")
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
