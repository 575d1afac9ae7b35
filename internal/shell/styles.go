// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// package shell implements the interactive menu loop of usercrud.
// This file defines the semantic styles used for every line the shell prints.
package shell // import "github.com/toeirei/usercrud/internal/shell"

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Tag names the meaning of a piece of output; the renderer decides how it looks.
type Tag int

const (
	TagPlain Tag = iota
	TagTitle
	TagSuccess
	TagError
	TagWarning
	TagHighlight
	TagInfo
)

// colorPalette defines the core colors used by the shell.
const (
	colorTitle     = lipgloss.Color("12") // bright blue
	colorSuccess   = lipgloss.Color("10") // bright green
	colorError     = lipgloss.Color("9")  // bright red
	colorWarning   = lipgloss.Color("11") // bright yellow
	colorHighlight = lipgloss.Color("13") // bright magenta
	colorInfo      = lipgloss.Color("14") // bright cyan
)

// Color modes accepted by NewRenderer.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewRenderer returns a lipgloss renderer for w. In auto mode the color
// profile is detected from w, so pipes and files get plain text.
func NewRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// Style maps a tag to its lipgloss style on renderer r. Every tag except
// TagPlain is bold.
func Style(r *lipgloss.Renderer, tag Tag) lipgloss.Style {
	s := r.NewStyle()
	switch tag {
	case TagTitle:
		return s.Bold(true).Foreground(colorTitle)
	case TagSuccess:
		return s.Bold(true).Foreground(colorSuccess)
	case TagError:
		return s.Bold(true).Foreground(colorError)
	case TagWarning:
		return s.Bold(true).Foreground(colorWarning)
	case TagHighlight:
		return s.Bold(true).Foreground(colorHighlight)
	case TagInfo:
		return s.Bold(true).Foreground(colorInfo)
	default:
		return s
	}
}

// Paint renders text with the style for tag.
func Paint(r *lipgloss.Renderer, tag Tag, text string) string {
	if tag == TagPlain {
		return text
	}
	return Style(r, tag).Render(text)
}
