// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Command gridterm-setup is the first-run wizard for gridterm.

# Overview

The wizard checks the host, asks for a Gemini API key, a default model and
an operator name, and writes ~/.gridterm/config.toml. An existing file is
used as the starting point, so settings the wizard does not ask about are
kept. Running it again updates the file in place.

# Building

	go build -o gridterm-setup ./cmd/gridterm-setup

# Command Line Options

	--text, -t       Run in text mode (no full-screen UI)
	--config PATH    Write PATH instead of ~/.gridterm/config.toml
	--help, -h       Show help information
	--version, -v    Show version number

# Checks

  - Operating system
  - Config directory writable
  - API key already present in the environment
  - Network reach of the Gemini endpoint
  - Free disk space for the log file

Failed checks are reported but never block the wizard.

# Keys

In the full-screen mode Enter advances, Up/Down choose a model and Esc or
Ctrl+C leaves without writing anything.
*/
package main
