// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/session"
	"github.com/jeranaias/gridterm/internal/ui/components"
	"github.com/jeranaias/gridterm/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// InputPlaceholder is shown in the empty input field.
	InputPlaceholder = "Inject data request, Sir..."

	inputPrompt    = ">> "
	inputCharLimit = 4096

	// Layout heights of the fixed chrome around the viewport.
	headerHeight    = 2
	inputAreaHeight = 2
	statusBarHeight = 1
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a new Model.
type Options struct {
	Welcome    string
	EngineName string // badge on LINK entries, e.g. BLACK3PANTHER
	HUDTitle   string // right side of the HUD, e.g. Black3Panther Engine

	Model     string
	Grounding bool
	Online    bool

	MarkdownStyle string
	WordWrap      int

	// Markdown overrides the glamour renderer. Tests use PlainMarkdown.
	Markdown components.Markdown

	Context context.Context
	Logger  *zap.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the console.
type Model struct {
	// Session
	state   session.State
	stamper session.Stamper
	querier session.Querier
	ctx     context.Context

	// Styling
	theme         *styles.Theme
	keyMap        KeyMap
	markdownStyle string
	wordWrap      int
	fixedMarkdown bool

	// Dimensions
	width  int
	height int
	ready  bool

	// Widgets
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	transcript *components.TranscriptView
	header     *components.Header
	statusBar  *components.StatusBar

	logger *zap.Logger
}

// New creates the console model. The welcome banner becomes the single
// SYSTEM entry of the session.
func New(theme *styles.Theme, stamper session.Stamper, querier session.Querier, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = inputPrompt
	ti.PromptStyle = theme.InputPrompt
	ti.Placeholder = InputPlaceholder
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = inputCharLimit
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.GridSpinner.Frames,
		FPS:    styles.GridSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	md := opts.Markdown
	fixed := md != nil
	if !fixed {
		md = components.NewMarkdown(opts.MarkdownStyle, opts.WordWrap)
	}

	header := components.NewHeader(theme, opts.HUDTitle)
	header.SetOnline(opts.Online)

	status := components.NewStatusBar(theme)
	status.SetModel(opts.Model)
	status.SetGrounding(opts.Grounding)

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		state:         session.New(opts.Welcome, stamper.Next()),
		stamper:       stamper,
		querier:       querier,
		ctx:           ctx,
		theme:         theme,
		keyMap:        DefaultKeyMap(),
		markdownStyle: opts.MarkdownStyle,
		wordWrap:      opts.WordWrap,
		fixedMarkdown: fixed,
		input:         ti,
		viewport:      vp,
		spinner:       sp,
		transcript:    components.NewTranscriptView(theme, md, opts.EngineName),
		header:        header,
		statusBar:     status,
		logger:        logger.Named("tui"),
	}
	m.refresh()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// View renders the console.
func (m Model) View() string {
	return m.renderConsole()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the session state.
func (m Model) State() session.State {
	return m.state
}

// InputValue returns the text currently in the input field.
func (m Model) InputValue() string {
	return m.input.Value()
}

// AtBottom reports whether the viewport shows the newest entry.
func (m Model) AtBottom() bool {
	return m.viewport.AtBottom()
}

// =============================================================================
// HELPERS
// =============================================================================

// refresh rebuilds the transcript and scrolls to the newest entry.
func (m *Model) refresh() {
	rows := components.Project(m.state.Transcript.Entries(), m.state.Busy)
	m.viewport.SetContent(m.transcript.Render(rows))
	m.viewport.GotoBottom()
	m.statusBar.SetBusy(m.state.Busy, m.spinner.View())
}

// rebuildMarkdown recreates the glamour renderer for the current width.
func (m *Model) rebuildMarkdown() {
	if m.fixedMarkdown {
		return
	}
	m.transcript.SetMarkdown(components.NewMarkdown(m.markdownStyle, m.wrapWidth()))
}

// wrapWidth is the configured wrap clamped to the viewport.
func (m *Model) wrapWidth() int {
	w := m.width - 4
	if m.wordWrap > 0 && (w <= 0 || m.wordWrap < w) {
		return m.wordWrap
	}
	return w
}

// queryCmd runs one query off the UI goroutine.
func (m Model) queryCmd(prompt string) tea.Cmd {
	querier, ctx, logger := m.querier, m.ctx, m.logger
	return func() tea.Msg {
		start := time.Now()
		res := querier.QueryGrid(ctx, prompt)
		logger.Debug("query returned", zap.Duration("duration", time.Since(start)), zap.Bool("error", res.IsError()))
		return QuerySettledMsg{Result: res}
	}
}
