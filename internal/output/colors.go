package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// GHCOMMIT_COLORS is the palette for status lines
var GHCOMMIT_COLORS = map[string][]int{
	"success": {77, 202, 125},  // Green
	"warning": {245, 200, 0},   // Yellow
	"error":   {244, 98, 81},   // Red
	"detail":  {159, 131, 228}, // Purple
}

// IsInteractive reports whether both stdin and stdout are terminals
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Styles renders status prefixes, in color only when writing to a terminal
type Styles struct {
	renderer *lipgloss.Renderer
	color    bool
}

// NewStyles picks a color profile for w. Anything that is not a terminal,
// including the Actions log, gets plain ASCII.
func NewStyles(w io.Writer) Styles {
	renderer := lipgloss.NewRenderer(w)
	f, ok := w.(*os.File)
	color := ok && isTerminal(f)
	if !color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return Styles{renderer: renderer, color: color}
}

func (s Styles) paint(kind, text string) string {
	if !s.color || s.renderer == nil {
		return text
	}
	rgb := GHCOMMIT_COLORS[kind]
	hexColor := lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]))
	return s.renderer.NewStyle().Foreground(hexColor).Render(text)
}

// Success renders a success line
func (s Styles) Success(text string) string { return s.paint("success", "✓ "+text) }

// Warning renders a warning line
func (s Styles) Warning(text string) string { return s.paint("warning", "! "+text) }

// Error renders an error line
func (s Styles) Error(text string) string { return s.paint("error", "✗ "+text) }

// Detail renders secondary information such as SHAs and paths
func (s Styles) Detail(text string) string { return s.paint("detail", text) }
