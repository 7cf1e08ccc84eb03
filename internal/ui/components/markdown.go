// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown turns markdown text into terminal output.
type Markdown interface {
	Render(markdown string) (string, error)
}

// GlamourMarkdown renders markdown with glamour.
type GlamourMarkdown struct {
	renderer *glamour.TermRenderer
	style    string
	wrap     int
}

// NewGlamourMarkdown creates a renderer. style is a glamour standard style
// name ("dark", "light", "notty", ...) or "auto" to detect it from the
// terminal. wrap <= 0 disables word wrapping.
func NewGlamourMarkdown(style string, wrap int) (*GlamourMarkdown, error) {
	opts := []glamour.TermRendererOption{glamour.WithEmoji()}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if wrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wrap))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &GlamourMarkdown{renderer: r, style: style, wrap: wrap}, nil
}

// Render implements Markdown. Leading and trailing blank lines added by
// glamour are trimmed so entries stack tightly.
func (g *GlamourMarkdown) Render(markdown string) (string, error) {
	out, err := g.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// Style returns the style name the renderer was built with.
func (g *GlamourMarkdown) Style() string {
	return g.style
}

// Wrap returns the configured word-wrap width.
func (g *GlamourMarkdown) Wrap() int {
	return g.wrap
}

// PlainMarkdown returns the markdown source unchanged. Used for pipes and
// tests.
type PlainMarkdown struct{}

// Render implements Markdown.
func (PlainMarkdown) Render(markdown string) (string, error) {
	return markdown, nil
}

// NewMarkdown returns a glamour renderer, or PlainMarkdown if glamour cannot
// be initialized.
func NewMarkdown(style string, wrap int) Markdown {
	g, err := NewGlamourMarkdown(style, wrap)
	if err != nil {
		return PlainMarkdown{}
	}
	return g
}

// renderMarkdown renders content, returning the original content if
// rendering fails.
func renderMarkdown(md Markdown, content string) string {
	if md == nil {
		return content
	}
	out, err := md.Render(content)
	if err != nil {
		return content
	}
	return out
}
