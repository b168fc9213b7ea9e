package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// dumpStyles colors the parts of an automaton dump.
type dumpStyles struct {
	Header     lipgloss.Style
	State      lipgloss.Style
	Final      lipgloss.Style
	Transition lipgloss.Style
	Dim        lipgloss.Style
}

func newDumpStyles(colorEnabled bool) *dumpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &dumpStyles{
			Header:     plain,
			State:      plain,
			Final:      plain,
			Transition: plain,
			Dim:        plain,
		}
	}
	return &dumpStyles{
		Header:     lipgloss.NewStyle().Bold(true),
		State:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Final:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Transition: lipgloss.NewStyle(),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// isColorEnabled determines if color output should be enabled.
func isColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
