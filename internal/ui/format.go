// Package ui renders the colourised summary lines printed around every
// install-affecting action.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type Style int

const (
	StylePlain Style = iota
	StyleHeader
	StyleSubject
	StylePath
	StyleOK
	StyleError
	StyleWarn
	StyleMuted
	StyleBucket
	StyleFile
)

var renderer = newANSIRenderer()

var styles = map[Style]lipgloss.Style{
	StyleHeader:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	StyleSubject: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
	StylePath:    renderer.NewStyle().Foreground(lipgloss.Color("5")),
	StyleOK:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	StyleError:   renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	StyleWarn:    renderer.NewStyle().Foreground(lipgloss.Color("11")),
	StyleMuted:   renderer.NewStyle().Foreground(lipgloss.Color("8")),
	StyleBucket:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
	StyleFile:    renderer.NewStyle().Foreground(lipgloss.Color("6")),
}

// newANSIRenderer pins the colour profile so that output only depends on
// the interactive flag handed to Format, never on the process environment.
func newANSIRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

// Format returns text styled for a terminal, or unchanged when the output
// is not interactive.
func Format(style Style, text string, interactive bool) string {
	if !interactive || text == "" {
		return text
	}
	s, ok := styles[style]
	if !ok {
		return text
	}
	return s.Render(text)
}
