// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/gridterm/internal/config"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	textMode := false
	path := ""

	for i := 0; i < len(argv); i++ {
		switch arg := argv[i]; arg {
		case "--text", "-t":
			textMode = true
		case "--help", "-h":
			printHelp()
			return 0
		case "--version", "-v":
			fmt.Printf("gridterm-setup v%s\n", version)
			return 0
		case "--config":
			if i+1 >= len(argv) {
				fmt.Fprintln(os.Stderr, "Error: --config needs a path")
				return 2
			}
			i++
			path = argv[i]
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown option %q\n", arg)
			printHelp()
			return 2
		}
	}

	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		path = p
	}

	base, err := config.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Fix or remove the file, then run setup again.")
		return 3
	}

	checks := defaultChecks(filepath.Dir(path))
	stdinTTY := term.IsTerminal(int(os.Stdin.Fd()))

	if textMode || !stdinTTY || !term.IsTerminal(int(os.Stdout.Fd())) {
		t := &textSetup{
			in:     bufio.NewReader(os.Stdin),
			out:    os.Stdout,
			path:   path,
			base:   base,
			checks: checks,
		}
		if stdinTTY {
			t.readSecret = func() (string, error) {
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				return string(b), err
			}
		}
		if _, err := t.run(); err != nil {
			if errors.Is(err, errCancelled) {
				fmt.Println("\nSetup cancelled. Nothing was written.")
				return 1
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	w := NewWizard(path, base, checks)
	p := tea.NewProgram(w, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running setup: %v\n", err)
		return 1
	}
	if w.Aborted() {
		fmt.Println("Setup cancelled. Nothing was written.")
		return 1
	}
	if cfg := w.Written(); cfg != nil {
		fmt.Printf("Wrote %s (model %s)\n", path, cfg.Gemini.Model)
	}
	return 0
}

func printHelp() {
	fmt.Println(`gridterm-setup v` + version + `

Usage: gridterm-setup [OPTIONS]

Options:
  --text, -t       Run in text mode (plain prompts)
  --config PATH    Write PATH instead of ~/.gridterm/config.toml
  --help, -h       Show this help
  --version, -v    Show version

Text mode is used automatically when stdin or stdout is not a terminal.`)
}
