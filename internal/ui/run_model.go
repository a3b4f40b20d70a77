package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// RunModel starts the Bubble Tea program for the fields in opts.Config.
// Width/height of 0 are taken from the terminal, falling back to the defaults.
// When out is non-nil, the final value of each field is written to it after
// the program exits. Extra ProgramOptions are passed to tea.NewProgram.
func RunModel(ctx context.Context, opts Options, out io.Writer, progOpts ...tea.ProgramOption) error {
	runW, runH := opts.Width, opts.Height
	if runW <= 0 || runH <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if runW <= 0 {
				runW = w
			}
			if runH <= 0 {
				runH = h
			}
		}
	}
	if runW <= 0 {
		runW = DefaultWidth
	}
	if runH <= 0 {
		runH = DefaultHeight
	}
	opts.Width, opts.Height = runW, runH

	m, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}

	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithWindowSize(runW, runH)}, progOpts...)
	prog := tea.NewProgram(m, progOpts...)
	if keys := ParseStartupKeys(opts.StartKeys); len(keys) > 0 {
		go func() {
			for _, k := range keys {
				prog.Send(k)
			}
		}()
	}
	finalModel, err := prog.Run()
	if fm, ok := finalModel.(*Model); ok && fm != nil && out != nil {
		printFieldValues(out, fm)
	}
	return err
}

// printFieldValues writes "id: value" for every non-empty field.
func printFieldValues(out io.Writer, m *Model) {
	for _, f := range m.Fields() {
		value := strings.TrimSpace(f.Input.Value())
		if value == "" {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", f.ID(), value)
	}
}
