// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// gridterm.
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.RunAsk(ctx, env, args)
//	case cli.CmdChat:
//	    err = cli.RunChat(ctx, env, cli.NewChatCLI())
//	}
//
// # Commands Overview
//
//   - (none), tui: full-screen console
//   - ask: one query, markdown only on a TTY, exit 1 on an error entry
//   - chat: line-mode session with liner history
//   - config: show, path, init
//   - models: known models
//   - logs: recent log records
//   - version, help
package cli
