package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI 16-color palette indexes.
var (
	colorLabel = lipgloss.Color("12") // bright blue
	colorOK    = lipgloss.Color("10") // bright green
	colorError = lipgloss.Color("9")  // bright red
	colorWarn  = lipgloss.Color("11") // bright yellow
)

// Styles holds the console styles bound to one output.
type Styles struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// NewStyles binds styles to out. Color is used only when out is a terminal
// that supports it, and never when noColor is set.
func NewStyles(out io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(out)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return newStyles(r)
}

// ProfileStyles binds styles to out with a fixed color profile, regardless of
// what out supports.
func ProfileStyles(out io.Writer, p termenv.Profile) Styles {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(p)
	return newStyles(r)
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Label:   r.NewStyle().Foreground(colorLabel),
		Value:   r.NewStyle().Foreground(colorOK),
		Success: r.NewStyle().Foreground(colorOK),
		Error:   r.NewStyle().Foreground(colorError),
		Warning: r.NewStyle().Foreground(colorWarn),
	}
}
