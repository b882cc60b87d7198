package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Iron-Ham/triage/internal/config"
	"github.com/Iron-Ham/triage/internal/present"
)

// terminalInfo reports whether w is a terminal and, if so, its width.
func terminalInfo(w io.Writer) (isTTY bool, width int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	if cols, _, err := term.GetSize(fd); err == nil {
		width = cols
	}
	return true, width
}

// newRenderer builds the renderer for w from the output settings.
// output.color "auto" styles terminals only; "always" forces ANSI colors
// into pipes as well.
func newRenderer(w io.Writer, out config.OutputConfig) (present.Renderer, error) {
	format, err := present.ParseFormat(out.Format)
	if err != nil {
		return present.Renderer{}, err
	}

	isTTY, width := terminalInfo(w)
	rd := present.Renderer{Format: format, Width: width}
	switch out.Color {
	case "always":
		if !isTTY {
			lipgloss.SetColorProfile(termenv.ANSI256)
		}
	case "never":
		rd.Plain = true
	default:
		rd.Plain = !isTTY
	}
	return rd, nil
}
