// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
// Short:   Show, locate or create the config file
//
// Subcommands:
//   show (default)      Display the effective configuration
//   path                Print the config file path
//   init                Write a default config.toml (--force overwrites)
//
// Examples:
//   gridterm config
//   gridterm config show --json
//   gridterm --config ./dev.toml config init

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
)

// ErrConfigExists is returned by config init when the file is present.
var ErrConfigExists = errors.New("config file already exists (use --force to overwrite)")

// RunConfig dispatches the config subcommands.
func RunConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(env, args)
	case "path":
		fmt.Fprintln(env.stdout(), env.ConfigPath)
		return nil
	case "init":
		return initConfig(env, args)
	default:
		return NewUsageError(fmt.Sprintf("unknown config subcommand %q", args.Subcommand))
	}
}

func showConfig(env *Env, args Args) error {
	cfg := env.Config

	if args.JSON {
		// String() redacts the key.
		return NewJSONResponse("config", json.RawMessage(cfg.String())).Write(env.stdout())
	}

	key := "not set"
	if cfg.HasAPIKey() {
		key = "set (fingerprint " + gemini.NewClient(cfg.GeminiSettings()).KeyFingerprint() + ")"
	}
	rpm := "unlimited"
	if cfg.Gemini.RequestsPerMinute > 0 {
		rpm = strconv.Itoa(cfg.Gemini.RequestsPerMinute) + "/min"
	}
	persona := "built-in"
	if cfg.Gemini.Persona != "" {
		persona = "custom"
	}
	wrap := "terminal width"
	if cfg.UI.WordWrap > 0 {
		wrap = strconv.Itoa(cfg.UI.WordWrap)
	}
	_, statErr := os.Stat(env.ConfigPath)
	file := env.ConfigPath
	if statErr != nil {
		file += " (not found, using defaults)"
	}

	w := env.stdout()
	fmt.Fprintln(w, TitleStyle.Render("gridterm configuration"))
	fmt.Fprintln(w, RenderField("File:", file))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderField("API key:", key))
	fmt.Fprintln(w, RenderField("Model:", modelLabel(cfg.Gemini.Model)))
	fmt.Fprintln(w, RenderField("Grid search:", onOff(cfg.Gemini.Grounding)))
	fmt.Fprintln(w, RenderField("Pacing:", rpm))
	fmt.Fprintln(w, RenderField("Persona:", persona))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderField("Engine:", cfg.UI.EngineName))
	fmt.Fprintln(w, RenderField("Operator:", cfg.UI.Operator))
	fmt.Fprintln(w, RenderField("Markdown:", cfg.UI.MarkdownStyle))
	fmt.Fprintln(w, RenderField("Word wrap:", wrap))
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderField("Log file:", cfg.Log.Path))
	fmt.Fprintln(w, RenderField("Log level:", cfg.Log.Level))
	return nil
}

// initConfig writes built-in defaults. Environment overrides are not
// persisted, so a key from GEMINI_API_KEY never lands on disk.
func initConfig(env *Env, args Args) error {
	if _, err := os.Stat(env.ConfigPath); err == nil && !args.Force {
		return &ConfigError{Path: env.ConfigPath, Err: ErrConfigExists}
	}

	cfg := config.Default()
	cfg.SetDefaults()
	if err := config.SaveTo(cfg, env.ConfigPath); err != nil {
		return &ConfigError{Path: env.ConfigPath, Err: err}
	}

	fmt.Fprintf(env.stdout(), "Wrote %s\n", env.ConfigPath)
	fmt.Fprintln(env.stdout(), DimStyle.Render("Set gemini.api_key there, or export GRIDTERM_API_KEY."))
	return nil
}
