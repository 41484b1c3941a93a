// Package console renders the character panel as a bordered box on stdout,
// so the interaction flow can be exercised on a desk without the LCD wired
// up.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crypticsy/VisionCaster/internal/config"
	"github.com/crypticsy/VisionCaster/internal/display"
)

// Display mimics the LCD geometry in the terminal.
type Display struct {
	out     io.Writer
	columns int
	rows    int
	style   lipgloss.Style
}

// New creates a console display with the same geometry as the configured
// panel.
func New(cfg config.LCDConfig) *Display {
	return &Display{
		out:     os.Stdout,
		columns: cfg.Columns,
		rows:    cfg.Rows,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("22")).
			Width(cfg.Columns),
	}
}

// Write renders text in the bordered box.
func (d *Display) Write(text string) error {
	lines := display.Wrap(text, d.columns, d.rows)
	for len(lines) < d.rows {
		lines = append(lines, "")
	}
	fmt.Fprintln(d.out, d.style.Render(strings.Join(lines, "\n")))
	return nil
}

// Clear renders an empty box.
func (d *Display) Clear() error {
	return d.Write("")
}

// Close is a no-op for the console.
func (d *Display) Close() error { return nil }
