// SPDX-License-Identifier: MPL-2.0

// Package tui renders export progress. Model is a Bubble Tea program fed by
// the exporter's event channel; RenderPlain is the line-oriented fallback for
// pipes and CI logs.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Config holds common configuration for the renderers.
type Config struct {
	// Output specifies where to write.
	Output io.Writer
	// Width caps the progress bar width (0 for the default).
	Width int
	// Title is shown above the bar, usually the project folder.
	Title string
}

// Styles used by both renderers.
var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	phaseStyle  = lipgloss.NewStyle().Bold(true)
	logStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
)

// DefaultConfig writes to stdout.
func DefaultConfig() Config {
	return Config{Output: os.Stdout}
}

// IsTerminal reports whether w is a terminal. Anything that is not an
// *os.File (buffers, pipes wrapped in writers) is not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
