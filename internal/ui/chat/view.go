// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
)

// renderConsole lays out HUD, transcript, input and footer.
func (m Model) renderConsole() string {
	if !m.ready {
		return "Establishing uplink..."
	}

	parts := []string{
		m.header.View(),
		m.viewport.View(),
		m.renderInput(),
		m.statusBar.View(),
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderInput() string {
	width := m.width - m.theme.InputContainer.GetHorizontalBorderSize()
	if width < 1 {
		width = 1
	}
	return m.theme.InputContainer.Width(width).Render(m.input.View())
}
