package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyday/internal/models"
	"github.com/julianstephens/studyday/internal/utils"
)

var errClock = errors.New("use HH:MM, e.g. 07:30")

type AddSlotFormModel struct {
	Time    string
	Subject string
}

type EditTimeFormModel struct {
	SlotID string
	Time   string
}

func validateClock(s string) error {
	if !utils.IsClock(strings.TrimSpace(s)) {
		return errClock
	}
	return nil
}

func newAddSlotForm(fm *AddSlotFormModel, subjects []models.Subject) *huh.Form {
	options := make([]huh.Option[string], 0, len(subjects))
	for _, s := range subjects {
		options = append(options, huh.NewOption(s.Name, s.ID))
	}
	if fm.Subject == "" && len(subjects) > 0 {
		fm.Subject = subjects[0].ID
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start time").
				Placeholder("HH:MM").
				Value(&fm.Time).
				Validate(validateClock),
			huh.NewSelect[string]().
				Title("Subject").
				Options(options...).
				Value(&fm.Subject),
		),
	).WithTheme(huh.ThemeDracula())
}

// newEditTimeForm accepts any text. Empty input leaves the slot alone and a
// malformed time is reported by the validation banner after it is saved.
func newEditTimeForm(fm *EditTimeFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("HH:MM").
				Value(&fm.Time),
		),
	).WithTheme(huh.ThemeDracula())
}
