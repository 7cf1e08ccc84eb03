// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gridterm/internal/ui/styles"
	"github.com/jeranaias/gridterm/internal/util"
)

// =============================================================================
// HEADER COMPONENT - HUD bar above the transcript
// =============================================================================

const (
	// DefaultNodeOrigin is the console identifier shown in the HUD.
	DefaultNodeOrigin = "B3P_CONSOLE_MAIN"

	hudAlert  = "SECURE_LINK"
	hudBypass = "ACTIVE_BYPASS"
)

// Header is the HUD bar.
type Header struct {
	EngineName string // e.g. "Black3Panther Engine"
	NodeOrigin string
	Online     bool // an API key is configured
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme, engineName string) *Header {
	return &Header{
		EngineName: engineName,
		NodeOrigin: DefaultNodeOrigin,
		Width:      80,
		theme:      theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetOnline updates the link indicator
func (h *Header) SetOnline(online bool) {
	h.Online = online
}

// View renders the HUD
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - h.theme.Header.GetHorizontalFrameSize()

	indicator := styles.StatusIndicators.Online
	if !h.Online {
		indicator = styles.StatusIndicators.Offline
	}

	left := strings.Join([]string{
		h.theme.HeaderAlert.Render(indicator + " " + hudAlert),
		h.theme.HeaderMeta.Render(hudBypass),
		h.theme.HeaderMeta.Render("|"),
		h.theme.HeaderMeta.Render("Node Origin:"),
		h.theme.HeaderBrand.Render(h.NodeOrigin),
	}, " ")

	right := h.theme.HeaderBrand.Render(strings.ToUpper(h.EngineName))

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	var line string
	if gap >= 1 {
		line = left + strings.Repeat(" ", gap) + right
	} else {
		line = util.TruncateWidth(strings.ToUpper(h.EngineName), inner)
		line = h.theme.HeaderBrand.Render(line)
	}

	return h.theme.Header.Width(width - h.theme.Header.GetHorizontalBorderSize()).Render(line)
}
