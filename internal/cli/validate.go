package cli

import (
	"fmt"

	"github.com/julianstephens/studyday/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *Context) error {
	svc, err := ctx.Routine()
	if err != nil {
		return err
	}

	result := validation.New().ValidateSlots(svc.Date(), svc.Slots())
	ctx.printf("%s\n", result.FormatReport())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) in %s", len(result.Conflicts), svc.Date())
	}
	return nil
}
