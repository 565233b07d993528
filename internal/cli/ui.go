package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bicolour/pkg/colouring"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorFail   = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorInk    = lipgloss.Color("255") // white vertices, values
	colorMuted  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240") // black vertices, secondary text
)

// StyleTitle and StyleHighlight head the panes of the terminal editor.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorInk)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleLabel       = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleCached      = lipgloss.NewStyle().Foreground(colorOK)

	styleBlackVertex = lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	styleWhiteVertex = lipgloss.NewStyle().Foreground(colorInk).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// swatch renders a vertex marker in its colour class.
func swatch(col colouring.Colour) string {
	switch col {
	case colouring.Black:
		return styleBlackVertex.Render("●")
	case colouring.White:
		return styleWhiteVertex.Render("○")
	}
	return StyleDim.Render("?")
}

// =============================================================================
// Status Lines
// =============================================================================

// status writes the human-readable lines commands print after they finish.
// Documents sent to stdout never go through it.
type status struct{ w io.Writer }

func (c *CLI) status() status { return status{w: c.Out} }

func (s status) line(icon, msg string) {
	fmt.Fprintln(s.w, icon+" "+msg)
}

func (s status) success(format string, args ...any) {
	s.line(styleIconSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

func (s status) failure(format string, args ...any) {
	s.line(styleIconError.Render(iconError), fmt.Sprintf(format, args...))
}

func (s status) info(format string, args ...any) {
	s.line(styleIconInfo.Render(iconInfo), fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (s status) detail(format string, args ...any) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file points at a file a command wrote.
func (s status) file(path string) {
	fmt.Fprintln(s.w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func (s status) field(key, value string) {
	fmt.Fprintln(s.w, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// census prints the size and colour balance of col on one line, e.g.
// "  5 vertices · 4 edges · 3● 2○ · cached".
func (s status) census(col colouring.Colouring, cached bool) {
	g := col.Graph()
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d vertices", g.VertexCount())),
		StyleDim.Render(fmt.Sprintf("%d edges", g.EdgeCount())),
		fmt.Sprintf("%d%s %d%s",
			col.CountColour(colouring.Black), swatch(colouring.Black),
			col.CountColour(colouring.White), swatch(colouring.White)),
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	}
	fmt.Fprintln(s.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep suggests a follow-up command.
func (s status) nextStep(description, cmd string) {
	fmt.Fprintln(s.w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
