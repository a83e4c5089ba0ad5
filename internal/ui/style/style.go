// Package style holds the colours, icons and text styles used by the
// logger and the CLI result rendering.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Arrow   = "→"
)

// Styles are the text styles for resolution output, bound to one renderer.
type Styles struct {
	Path     lipgloss.Style
	Label    lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Cached   lipgloss.Style
}

// New creates the output styles for r.
func New(r *lipgloss.Renderer) Styles {
	return Styles{
		Path:     r.NewStyle().Foreground(Iris).Bold(true),
		Label:    r.NewStyle().Foreground(Slate),
		Positive: r.NewStyle().Foreground(Green),
		Negative: r.NewStyle().Foreground(Red),
		Cached:   r.NewStyle().Foreground(Yellow),
	}
}

// Points renders a signed score contribution in green or red.
func (s Styles) Points(v float64, text string) string {
	if v < 0 {
		return s.Negative.Render(text)
	}
	return s.Positive.Render(text)
}
