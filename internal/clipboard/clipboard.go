// Package clipboard copies comparison summaries to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool available")

// Writer copies text somewhere the user can paste it from.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// System writes through the platform's clipboard tool.
type System struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args []string, input string) error
}

// New returns a clipboard for the running platform.
func New() *System {
	return &System{goos: runtime.GOOS, lookPath: exec.LookPath, run: run}
}

// Write copies text to the clipboard.
func (s *System) Write(ctx context.Context, text string) error {
	name, args, ok := s.command()
	if !ok {
		return ErrUnavailable
	}
	if err := s.run(ctx, name, args, text); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Available reports whether a clipboard tool was found.
func (s *System) Available() bool {
	_, _, ok := s.command()
	return ok
}

// command picks the tool for the platform. Linux tries Wayland first,
// then xclip, then xsel.
func (s *System) command() (string, []string, bool) {
	var candidates [][]string
	switch s.goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		// clip ships with Windows
		return "cmd", []string{"/c", "clip"}, true
	default:
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}

	for _, c := range candidates {
		if _, err := s.lookPath(c[0]); err == nil {
			return c[0], c[1:], true
		}
	}
	return "", nil, false
}

func run(ctx context.Context, name string, args []string, input string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.Run()
}
