package cli

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/dalemusser/grampanchayat/internal/app/system/listing"
)

// promptConfirmer asks on the terminal before destructive calls. With
// assumeYes set it agrees without asking.
type promptConfirmer struct {
	assumeYes bool
}

var _ listing.Confirmer = promptConfirmer{}

func (p promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return pterm.DefaultInteractiveConfirm.
		WithDefaultText("Really " + prompt + "?").
		WithDefaultValue(false).
		Show()
}
