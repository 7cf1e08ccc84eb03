// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

const (
	// StateReady and StateBusy label the submit state.
	StateReady = "EXECUTE"
	StateBusy  = "SYNCING"
)

// StatusBar is the footer below the input.
type StatusBar struct {
	ModelName string
	Grounding bool
	Busy      bool
	Spinner   string // current spinner frame, shown while busy
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		ModelName: gemini.DefaultModel,
		Grounding: true,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetModel updates the model display. Registry models show their tier icon
// and display name.
func (s *StatusBar) SetModel(modelID string) {
	if info, ok := gemini.GetModelInfo(modelID); ok {
		s.ModelName = fmt.Sprintf("%s %s", info.TierIcon(), info.Name)
		return
	}
	s.ModelName = modelID
}

// SetGrounding updates the grounding indicator
func (s *StatusBar) SetGrounding(on bool) {
	s.Grounding = on
}

// SetBusy updates the submit state and spinner frame
func (s *StatusBar) SetBusy(busy bool, spinnerFrame string) {
	s.Busy = busy
	s.Spinner = spinnerFrame
}

// StateLabel returns EXECUTE or SYNCING.
func (s *StatusBar) StateLabel() string {
	if s.Busy {
		return StateBusy
	}
	return StateReady
}

// View renders the status bar
func (s *StatusBar) View() string {
	var state string
	if s.Busy {
		state = s.theme.Spinner.Render(s.Spinner) + " " + s.theme.StateBusy.Render(StateBusy)
	} else {
		state = s.theme.StateReady.Render(StateReady)
	}

	grounding := "off"
	if s.Grounding {
		grounding = "on"
	}

	left := strings.Join([]string{
		state,
		s.theme.ShortcutDesc.Render("Protocol: " + s.ModelName),
		s.theme.ShortcutDesc.Render("Grid search: " + grounding),
	}, "  ")

	right := s.renderShortcuts()

	inner := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	line := left
	if gap >= 1 {
		line = left + strings.Repeat(" ", gap) + right
	}
	return s.theme.StatusBar.Width(s.Width).MaxWidth(s.Width).Render(line)
}

func (s *StatusBar) renderShortcuts() string {
	pairs := [][2]string{{"enter", "send"}, {"pgup/pgdn", "scroll"}, {"esc", "quit"}}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, s.theme.ShortcutKey.Render(p[0])+" "+s.theme.ShortcutDesc.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}
