package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyday/internal/notifier"
	"github.com/julianstephens/studyday/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	svc, err := ctx.Routine()
	if err != nil {
		return err
	}

	// The screen shows the alert itself; only the tray is tried.
	var n notifier.Notifier = notifier.NewTray()
	p := tea.NewProgram(tui.NewModel(svc, n), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
