// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/session"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case QuerySettledMsg:
		return m.handleSettled(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case spinner.TickMsg:
		// The tick loop stops once the query settles.
		if !m.state.Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.SetBusy(true, m.spinner.View())
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	widthChanged := msg.Width != m.width
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	vpHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := m.width
	if vpWidth < 1 {
		vpWidth = 1
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight

	inputWidth := m.width - 4 - len(inputPrompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	m.transcript.SetWidth(vpWidth - 1)
	if widthChanged {
		m.rebuildMarkdown()
	}

	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keyMap.ScrollBindings()...) {
		return m.handleScroll(msg)
	}

	// Input is disabled while a query is in flight.
	if m.state.Busy {
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Submit) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state, _ = session.Reduce(m.state, session.InputChanged{Text: m.input.Value()})
	return m, cmd
}

func (m Model) handleScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.state, _ = session.Reduce(m.state, session.InputChanged{Text: m.input.Value()})

	var eff session.Effect
	m.state, eff = session.Reduce(m.state, session.Submitted{Stamp: m.stamper.Next()})
	d, ok := eff.(session.Dispatch)
	if !ok {
		return m, nil
	}

	m.logger.Info("query dispatched", zap.Int("prompt_len", len(d.Prompt)))
	m.input.Reset()
	m.input.Blur()
	m.refresh()
	return m, tea.Batch(m.queryCmd(d.Prompt), m.spinner.Tick)
}

func (m Model) handleSettled(msg QuerySettledMsg) (tea.Model, tea.Cmd) {
	m.state, _ = session.Reduce(m.state, session.Settled{Stamp: m.stamper.Next(), Result: msg.Result})
	m.refresh()
	return m, m.input.Focus()
}

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("config reload rejected", zap.Error(msg.Err))
		return m, nil
	}

	m.statusBar.SetModel(msg.Model)
	m.statusBar.SetGrounding(msg.Grounding)
	m.header.SetOnline(msg.Online)

	if msg.MarkdownStyle != m.markdownStyle || msg.WordWrap != m.wordWrap {
		m.markdownStyle = msg.MarkdownStyle
		m.wordWrap = msg.WordWrap
		m.rebuildMarkdown()
	}

	m.refresh()
	return m, nil
}
