// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and hot reload for gridterm.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GRIDTERM_API_KEY, GEMINI_API_KEY, GRIDTERM_*)
//   - ~/.gridterm/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := gemini.NewClient(cfg.GeminiSettings())
//
// A Watcher re-reads the file after every write and hands the new Config to
// a callback, so a missing key can be fixed without restarting.
package config
