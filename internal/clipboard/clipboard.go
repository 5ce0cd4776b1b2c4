// Package clipboard writes text into the system selection buffers by piping
// it through whichever clipboard tool is installed: wl-copy on Wayland, xsel
// or xclip on X11.
package clipboard

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

type tool struct {
	name string
	args []string
}

var standardTools = []tool{
	{name: "wl-copy"},
	{name: "xclip", args: []string{"-selection", "clipboard"}},
	{name: "xsel", args: []string{"--clipboard", "--input"}},
}

var primaryTools = []tool{
	{name: "wl-copy", args: []string{"--primary"}},
	{name: "xsel", args: []string{"--primary", "--input"}},
	{name: "xclip", args: []string{"-selection", "primary"}},
}

// Copier implements ports.Clipboard over external clipboard commands.
type Copier struct {
	log zerolog.Logger

	look func(file string) (string, error)
	run  func(ctx context.Context, input string, name string, args ...string) error
}

func NewCopier(log zerolog.Logger) *Copier {
	return &Copier{
		log:  log,
		look: exec.LookPath,
		run:  pipeInto,
	}
}

func (c *Copier) CopyStandard(ctx context.Context, text string) error {
	return c.copy(ctx, text, standardTools, "clipboard")
}

func (c *Copier) CopyPrimary(ctx context.Context, text string) error {
	return c.copy(ctx, text, primaryTools, "primary selection")
}

func (c *Copier) copy(ctx context.Context, text string, tools []tool, target string) error {
	for _, t := range tools {
		if _, err := c.look(t.name); err != nil {
			continue
		}
		if err := c.run(ctx, text, t.name, t.args...); err != nil {
			return fmt.Errorf("%s failed: %w", t.name, err)
		}
		c.log.Debug().Str("tool", t.name).Str("target", target).Msg("text copied")
		return nil
	}
	return fmt.Errorf("no clipboard tool found for %s, install wl-clipboard, xsel, or xclip", target)
}

func pipeInto(ctx context.Context, input string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
