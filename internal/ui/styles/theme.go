// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HUD STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderAlert lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	BadgeSystem lipgloss.Style
	BadgeUser   lipgloss.Style
	BadgeLink   lipgloss.Style
	BadgeError  lipgloss.Style
	Timestamp   lipgloss.Style

	BodyUser  lipgloss.Style
	BodyText  lipgloss.Style
	BodyError lipgloss.Style

	SourcesLabel lipgloss.Style
	SourceIndex  lipgloss.Style
	SourceTitle  lipgloss.Style
	SourceURI    lipgloss.Style

	PlaceholderTitle lipgloss.Style
	PlaceholderText  lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StateReady   lipgloss.Style
	StateBusy    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	Spinner      lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// HUD
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderAlert = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Badges
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(TextInverse)
	t.BadgeSystem = badge.Background(Amber)
	t.BadgeUser = badge.Background(Cyan)
	t.BadgeLink = badge.Background(Emerald)
	t.BadgeError = badge.Background(Rose)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Bodies
	t.BodyUser = lipgloss.NewStyle().
		Foreground(Cyan).
		PaddingLeft(2)

	t.BodyText = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.BodyError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1).
		MarginLeft(1)

	// Network nodes
	t.SourcesLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(2)

	t.SourceIndex = lipgloss.NewStyle().
		Foreground(TextMuted).
		PaddingLeft(2)

	t.SourceTitle = lipgloss.NewStyle().
		Foreground(Emerald)

	t.SourceURI = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Placeholder
	t.PlaceholderTitle = lipgloss.NewStyle().
		Bold(true).
		Blink(true).
		Foreground(Amber).
		PaddingLeft(2)

	t.PlaceholderText = lipgloss.NewStyle().
		Italic(true).
		Foreground(TextMuted).
		PaddingLeft(2)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StateReady = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.StateBusy = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Amber)
}

// BadgeFor returns the badge style for a sender name. Unknown senders get
// the engine badge.
func (t *Theme) BadgeFor(sender string, isError bool) lipgloss.Style {
	if isError {
		return t.BadgeError
	}
	switch sender {
	case "SYSTEM":
		return t.BadgeSystem
	case "USER":
		return t.BadgeUser
	default:
		return t.BadgeLink
	}
}

// MarkdownStyle picks a glamour style name that suits the terminal.
func (t *Theme) MarkdownStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
