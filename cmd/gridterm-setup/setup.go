// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	highlightStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(1, 2).
			Width(64)

	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// =============================================================================
// WIZARD MODEL
// =============================================================================

// Phase is the current wizard step.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseChecks
	PhaseKey
	PhaseModel
	PhaseOperator
	PhaseWriting
	PhaseComplete
)

// Wizard is the full-screen setup model.
type Wizard struct {
	phase  Phase
	width  int
	height int

	spinner  spinner.Model
	progress progress.Model

	checks     []Check
	results    []CheckResult
	current    int
	checkDelay time.Duration

	keyInput      textinput.Model
	operatorInput textinput.Model

	models   []string
	selected int

	path    string
	base    *config.Config
	written *config.Config
	err     error
	aborted bool
}

// NewWizard creates a wizard that writes path, starting from base.
func NewWizard(path string, base *config.Config, checks []Check) *Wizard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	key := textinput.New()
	key.Prompt = "> "
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.CharLimit = 256
	switch {
	case base.HasAPIKey():
		key.Placeholder = "leave blank to keep the current key"
	default:
		key.Placeholder = "paste your Gemini API key"
	}

	op := textinput.New()
	op.Prompt = "> "
	op.CharLimit = 64
	op.Placeholder = base.UI.Operator

	models := gemini.ModelAliases()
	selected := 0
	for i, alias := range models {
		if gemini.ResolveModel(alias) == base.Gemini.Model {
			selected = i
		}
	}

	results := make([]CheckResult, len(checks))
	for i, c := range checks {
		results[i] = CheckResult{Name: c.Name, Status: StatusChecking}
	}

	return &Wizard{
		phase:         PhaseWelcome,
		spinner:       s,
		progress:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		checks:        checks,
		results:       results,
		checkDelay:    200 * time.Millisecond,
		keyInput:      key,
		operatorInput: op,
		models:        models,
		selected:      selected,
		path:          path,
		base:          base,
	}
}

// Phase returns the current step.
func (w *Wizard) Phase() Phase { return w.phase }

// Written returns the saved config, or nil before the write succeeds.
func (w *Wizard) Written() *config.Config { return w.written }

// Err returns the write error, if any.
func (w *Wizard) Err() error { return w.err }

// Aborted reports whether the user left before the config was written.
func (w *Wizard) Aborted() bool { return w.aborted }

// Init starts the spinner.
func (w *Wizard) Init() tea.Cmd {
	return w.spinner.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

type checkCompleteMsg struct {
	index  int
	result CheckResult
}

type writeCompleteMsg struct {
	cfg *config.Config
	err error
}

// Update handles messages
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)

	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
		return w, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case checkCompleteMsg:
		w.results[msg.index] = msg.result
		w.current++
		if w.current < len(w.checks) {
			return w, w.runCheck(w.current)
		}
		return w, nil

	case writeCompleteMsg:
		if msg.err != nil {
			w.err = msg.err
			return w, nil
		}
		w.written = msg.cfg
		w.phase = PhaseComplete
		return w, nil
	}

	return w, w.updateInputs(msg)
}

func (w *Wizard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if w.phase != PhaseComplete {
			w.aborted = true
		}
		return w, tea.Quit

	case "enter":
		return w.advance()

	case "q":
		switch w.phase {
		case PhaseWelcome, PhaseChecks:
			w.aborted = true
			return w, tea.Quit
		case PhaseComplete:
			return w, tea.Quit
		}

	case "up", "k":
		if w.phase == PhaseModel {
			if w.selected > 0 {
				w.selected--
			}
			return w, nil
		}

	case "down", "j":
		if w.phase == PhaseModel {
			if w.selected < len(w.models)-1 {
				w.selected++
			}
			return w, nil
		}
	}

	return w, w.updateInputs(msg)
}

func (w *Wizard) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch w.phase {
	case PhaseKey:
		w.keyInput, cmd = w.keyInput.Update(msg)
	case PhaseOperator:
		w.operatorInput, cmd = w.operatorInput.Update(msg)
	}
	return cmd
}

// advance handles Enter for the current phase.
func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	switch w.phase {
	case PhaseWelcome:
		w.phase = PhaseChecks
		if len(w.checks) == 0 {
			return w, nil
		}
		return w, w.runCheck(0)

	case PhaseChecks:
		if w.current < len(w.checks) {
			return w, nil
		}
		w.phase = PhaseKey
		w.keyInput.Focus()
		return w, textinput.Blink

	case PhaseKey:
		w.keyInput.Blur()
		w.phase = PhaseModel
		return w, nil

	case PhaseModel:
		w.phase = PhaseOperator
		w.operatorInput.Focus()
		return w, textinput.Blink

	case PhaseOperator:
		w.operatorInput.Blur()
		w.phase = PhaseWriting
		w.err = nil
		return w, w.writeConfig(w.buildConfig())

	case PhaseWriting:
		if w.err != nil {
			w.err = nil
			return w, w.writeConfig(w.buildConfig())
		}
		return w, nil

	case PhaseComplete:
		return w, tea.Quit
	}
	return w, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (w *Wizard) runCheck(index int) tea.Cmd {
	check := w.checks[index]
	delay := w.checkDelay
	return func() tea.Msg {
		result := check.Run()
		if result.Name == "" {
			result.Name = check.Name
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		return checkCompleteMsg{index: index, result: result}
	}
}

// buildConfig merges the answers into a copy of the base config.
func (w *Wizard) buildConfig() *config.Config {
	return applyAnswers(w.base, answers{
		APIKey:   w.keyInput.Value(),
		Model:    w.models[w.selected],
		Operator: w.operatorInput.Value(),
	})
}

func (w *Wizard) writeConfig(cfg *config.Config) tea.Cmd {
	path := w.path
	return func() tea.Msg {
		if err := saveConfig(cfg, path); err != nil {
			return writeCompleteMsg{err: err}
		}
		return writeCompleteMsg{cfg: cfg}
	}
}

// answers are the values the wizard asks for. Blank values keep the base.
type answers struct {
	APIKey   string
	Model    string
	Operator string
}

func applyAnswers(base *config.Config, a answers) *config.Config {
	cfg := base.Clone()
	if key := strings.TrimSpace(a.APIKey); key != "" {
		cfg.Gemini.APIKey = key
	}
	if model := strings.TrimSpace(a.Model); model != "" {
		cfg.Gemini.Model = gemini.ResolveModel(model)
	}
	if op := strings.TrimSpace(a.Operator); op != "" {
		cfg.UI.Operator = op
	}
	cfg.SetDefaults()
	return cfg
}

func saveConfig(cfg *config.Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return config.SaveTo(cfg, path)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the wizard
func (w *Wizard) View() string {
	var body string
	switch w.phase {
	case PhaseWelcome:
		body = w.viewWelcome()
	case PhaseChecks:
		body = w.viewChecks()
	case PhaseKey:
		body = w.viewKey()
	case PhaseModel:
		body = w.viewModel()
	case PhaseOperator:
		body = w.viewOperator()
	case PhaseWriting:
		body = w.viewWriting()
	case PhaseComplete:
		body = w.viewComplete()
	}
	return w.center(body)
}

func (w *Wizard) header() string {
	width := w.width
	if width <= 0 || width > 72 {
		width = 72
	}
	return titleStyle.Render(styles.RenderScanline("GRIDTERM SETUP", width))
}

func (w *Wizard) viewWelcome() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("  Version %s", version)))
	s.WriteString("\n\n")

	text := `This wizard will:

  * Check the host
  * Store your Gemini API key
  * Pick a default model
  * Set your operator name`
	s.WriteString(boxStyle.Render(text))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render("  Config: " + w.path))
	s.WriteString("\n\n")
	s.WriteString(highlightStyle.Render("  Press ENTER to begin"))
	s.WriteString(dimStyle.Render("  |  Press Q to quit"))
	return s.String()
}

func (w *Wizard) viewChecks() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")

	for idx, check := range w.results {
		var icon, status string
		style := dimStyle

		switch check.Status {
		case StatusChecking:
			icon = "[ ]"
			if idx == w.current {
				icon = w.spinner.View()
			}
			status = "Checking..."
		case StatusPass:
			icon = "[OK]"
			status = check.Message
			style = successStyle
		case StatusFail:
			icon = "[FAIL]"
			status = check.Message
			style = errorStyle
		case StatusWarn:
			icon = "[!!]"
			status = check.Message
			style = warningStyle
		}

		s.WriteString(fmt.Sprintf("  %s %s", style.Render(icon), check.Name))
		s.WriteString(dimStyle.Render(" - " + status))
		s.WriteString("\n")
		if check.Fix != "" && check.Status != StatusChecking {
			s.WriteString(dimStyle.Render("      -> " + check.Fix))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n  ")
	pct := 1.0
	if len(w.checks) > 0 {
		pct = float64(w.current) / float64(len(w.checks))
	}
	s.WriteString(w.progress.ViewAs(pct))
	s.WriteString("\n\n")

	if w.current >= len(w.checks) {
		if w.checksFailed() {
			s.WriteString(warningStyle.Render("  Some checks need attention"))
			s.WriteString("\n\n")
			s.WriteString(highlightStyle.Render("  Press ENTER to continue anyway"))
		} else {
			s.WriteString(successStyle.Render("  All checks passed"))
			s.WriteString("\n\n")
			s.WriteString(highlightStyle.Render("  Press ENTER to continue"))
		}
	}
	return s.String()
}

func (w *Wizard) checksFailed() bool {
	for _, r := range w.results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func (w *Wizard) viewKey() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	s.WriteString("  Gemini API key\n\n")
	s.WriteString("  " + w.keyInput.View())
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("  Get one at https://aistudio.google.com/apikey"))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render("  GRIDTERM_API_KEY or GEMINI_API_KEY override the stored key."))
	s.WriteString("\n\n")
	s.WriteString(highlightStyle.Render("  Press ENTER to continue"))
	return s.String()
}

func (w *Wizard) viewModel() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	s.WriteString("  Default model\n\n")

	for idx, alias := range w.models {
		info, _ := gemini.GetModelInfo(alias)
		cursor := "  "
		style := unselectedStyle
		if idx == w.selected {
			cursor = "> "
			style = selectedStyle
		}
		line := fmt.Sprintf("  %s%-11s %-24s %s", cursor, alias, info.ID, info.ContextString())
		s.WriteString(style.Render(line))
		s.WriteString("\n")
	}

	if info, ok := gemini.GetModelInfo(w.models[w.selected]); ok && info.Description != "" {
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("  " + info.Description))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(dimStyle.Render("  Use ↑/↓ to select, ENTER to confirm"))
	return s.String()
}

func (w *Wizard) viewOperator() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	s.WriteString("  Operator name (shown in the welcome banner)\n\n")
	s.WriteString("  " + w.operatorInput.View())
	s.WriteString("\n\n")
	s.WriteString(highlightStyle.Render("  Press ENTER to write the config"))
	return s.String()
}

func (w *Wizard) viewWriting() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	if w.err != nil {
		s.WriteString(errorStyle.Render("  Could not write the config"))
		s.WriteString("\n")
		s.WriteString(dimStyle.Render("  " + w.err.Error()))
		s.WriteString("\n\n")
		s.WriteString(highlightStyle.Render("  Press ENTER to retry"))
		s.WriteString(dimStyle.Render("  |  Esc to quit"))
		return s.String()
	}
	s.WriteString(fmt.Sprintf("  %s Writing configuration...\n", w.spinner.View()))
	s.WriteString(dimStyle.Render("     " + w.path))
	return s.String()
}

func (w *Wizard) viewComplete() string {
	var s strings.Builder
	s.WriteString(w.header())
	s.WriteString("\n")
	s.WriteString(successStyle.Render("  Configuration written"))
	s.WriteString("\n\n")

	cfg := w.written
	if cfg != nil {
		s.WriteString(fmt.Sprintf("  Model:     %s\n", cfg.Gemini.Model))
		s.WriteString(fmt.Sprintf("  Operator:  %s\n", cfg.UI.Operator))
		if cfg.HasAPIKey() {
			s.WriteString("  API key:   stored\n")
		} else {
			s.WriteString(warningStyle.Render("  API key:   none stored, set GEMINI_API_KEY before querying"))
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString("  Start the console with:\n\n")
	s.WriteString(highlightStyle.Render("    gridterm"))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("  Press ENTER to exit"))
	return s.String()
}

// center pads content down from the top of the screen.
func (w *Wizard) center(content string) string {
	if w.width == 0 || w.height == 0 {
		return content
	}
	top := (w.height - lipgloss.Height(content)) / 3
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}
