package report

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII banner shown by interactive commands.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`        _       _       _    _ _   `, "#38bdf8"},
		{`  _ __ | | __ _| |_ ___| | _(_) |_ `, "#22d3ee"},
		{` | '_ \| |/ _' | __/ _ \ |/ / | __|`, "#2dd4bf"},
		{` | |_) | | (_| | ||  __/   <| | |_ `, "#34d399"},
		{` | .__/|_|\__,_|\__\___|_|\_\_|\__|`, "#4ade80"},
		{` |_|                               `, "#a3e635"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
