package main

import (
	"os"
	"strings"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	termenv "github.com/muesli/termenv"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// render formats a reply as markdown when stdout is a terminal, and
// returns it unchanged otherwise
func render(text string) string {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return text
	}

	// Wrap to the terminal width
	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}
	stylePath := "dark"
	if !termenv.HasDarkBackground() {
		stylePath = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(stylePath),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	if out, err := renderer.Render(text); err == nil {
		return strings.TrimRight(out, "\n")
	}
	return text
}
