// Package report turns computation results into markdown and renders
// them for the terminal.
package report

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer renders markdown reports. On a terminal it styles them with
// glamour; piped output gets the raw markdown so results stay greppable.
type Renderer struct {
	styled *glamour.TermRenderer
}

// NewRenderer builds a renderer for the given sink.
func NewRenderer(w io.Writer) *Renderer {
	if !isTerminal(w) {
		return &Renderer{}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{styled: r}
}

// Render returns the report ready to print.
func (r *Renderer) Render(markdown string) (string, error) {
	if r.styled == nil {
		return markdown, nil
	}
	return r.styled.Render(markdown)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
