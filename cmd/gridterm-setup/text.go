// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
)

// =============================================================================
// TEXT MODE
// =============================================================================

// errCancelled is returned when the user quits before anything is written.
var errCancelled = errors.New("setup cancelled")

const rule = "--------------------------------------------------------------------------------"

// textSetup runs the wizard as plain prompts.
type textSetup struct {
	in  *bufio.Reader
	out io.Writer

	path   string
	base   *config.Config
	checks []Check

	// readSecret reads the API key without echo. Nil reads a plain line.
	readSecret func() (string, error)
}

func (t *textSetup) section(title string) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, rule)
	fmt.Fprintf(t.out, "  %s\n", title)
	fmt.Fprintln(t.out, rule)
	fmt.Fprintln(t.out)
}

func (t *textSetup) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *textSetup) run() (*config.Config, error) {
	fmt.Fprintln(t.out, "GRIDTERM SETUP")
	fmt.Fprintf(t.out, "Config: %s\n\n", t.path)
	fmt.Fprint(t.out, "Press Enter to continue (or 'q' to quit): ")
	if in, err := t.readLine(); err != nil || strings.EqualFold(in, "q") {
		return nil, errCancelled
	}

	t.section("SYSTEM CHECK")
	for _, c := range t.checks {
		r := c.Run()
		tag := "[OK]"
		switch r.Status {
		case StatusWarn:
			tag = "[!!]"
		case StatusFail:
			tag = "[FAIL]"
		}
		fmt.Fprintf(t.out, "  %s %s: %s\n", tag, c.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(t.out, "       -> %s\n", r.Fix)
		}
	}

	t.section("GEMINI API KEY")
	if t.base.HasAPIKey() {
		fmt.Fprint(t.out, "API key (blank keeps the current key): ")
	} else {
		fmt.Fprint(t.out, "API key (blank to rely on GEMINI_API_KEY): ")
	}
	var key string
	var err error
	if t.readSecret != nil {
		key, err = t.readSecret()
		fmt.Fprintln(t.out)
	} else {
		key, err = t.readLine()
	}
	if err != nil {
		return nil, errCancelled
	}

	t.section("DEFAULT MODEL")
	aliases := gemini.ModelAliases()
	current := 0
	for i, alias := range aliases {
		info, _ := gemini.GetModelInfo(alias)
		if info.ID == t.base.Gemini.Model {
			current = i
		}
		fmt.Fprintf(t.out, "  [%d] %-11s %-24s %s\n", i+1, alias, info.ID, info.ContextString())
	}
	fmt.Fprintf(t.out, "\nEnter choice [1-%d] (default %d): ", len(aliases), current+1)
	choice, err := t.readLine()
	if err != nil {
		return nil, errCancelled
	}
	model := aliases[current]
	if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(aliases) {
		model = aliases[n-1]
	} else if choice != "" {
		// A typed id or alias is taken as is.
		model = choice
	}

	t.section("OPERATOR")
	fmt.Fprintf(t.out, "Operator name (default %s): ", t.base.UI.Operator)
	operator, err := t.readLine()
	if err != nil {
		return nil, errCancelled
	}

	cfg := applyAnswers(t.base, answers{APIKey: key, Model: model, Operator: operator})
	if err := saveConfig(cfg, t.path); err != nil {
		return nil, err
	}

	t.section("DONE")
	fmt.Fprintf(t.out, "  [OK] Wrote %s\n", t.path)
	fmt.Fprintf(t.out, "  Model:    %s\n", cfg.Gemini.Model)
	fmt.Fprintf(t.out, "  Operator: %s\n", cfg.UI.Operator)
	if !cfg.HasAPIKey() {
		fmt.Fprintln(t.out, "  [!!] No key stored. Set GEMINI_API_KEY before querying.")
	}
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "Start the console with: gridterm")
	return cfg, nil
}
