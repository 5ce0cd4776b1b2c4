// Package typing emulates the paste keystroke with wtype: Ctrl+V for the
// standard clipboard, Shift+Insert for the primary selection.
package typing

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/postpersonality/float-speech-to-text/internal/domain"
)

// WtypePaster implements ports.Paster over the wtype command.
type WtypePaster struct {
	log zerolog.Logger

	look func(file string) (string, error)
	run  func(ctx context.Context, name string, args ...string) error
}

func NewWtypePaster(log zerolog.Logger) *WtypePaster {
	return &WtypePaster{
		log:  log,
		look: exec.LookPath,
		run:  runCommand,
	}
}

func (p *WtypePaster) Paste(ctx context.Context, method domain.CopyMethod) error {
	if _, err := p.look("wtype"); err != nil {
		return fmt.Errorf("wtype not found, install it to enable auto-paste: %w", err)
	}

	var args []string
	if method == domain.CopyMethodPrimary {
		args = []string{"-M", "shift", "-k", "Insert", "-m", "shift"}
	} else {
		args = []string{"-M", "ctrl", "-k", "v", "-m", "ctrl"}
	}

	if err := p.run(ctx, "wtype", args...); err != nil {
		return fmt.Errorf("wtype failed: %w", err)
	}
	p.log.Debug().Str("method", string(method)).Msg("paste keystroke sent")
	return nil
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
