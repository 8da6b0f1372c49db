package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette: lime accent with yellow/red for warnings and errors.
const (
	ColorLime   = "154"
	ColorGray   = "245"
	ColorRed    = "196"
	ColorYellow = "220"
)

// Styles holds the text styles used by Writer.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the colored styles rendered by r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Label:   r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success: r.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning: r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   r.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
	}
}

// StylesFor returns the styles for out under a color mode. "always" forces
// a 256-color profile even when out is not a terminal.
func StylesFor(out io.Writer, mode string) Styles {
	if !ColorEnabled(out, mode) {
		return NoColorStyles()
	}
	r := lipgloss.NewRenderer(out)
	if strings.EqualFold(mode, "always") {
		r.SetColorProfile(termenv.ANSI256)
	}
	return DefaultStyles(r)
}
