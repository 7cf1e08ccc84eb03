// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// logs.go - Logs command: shows recent records from the log file.
//
// Examples:
//   gridterm logs
//   gridterm logs -n 50 --level error

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/gridterm/internal/logging"
)

// DefaultLogLines is how many records logs prints without -n.
const DefaultLogLines = 20

// RunLogs prints the newest records, oldest of them first.
func RunLogs(env *Env, args Args) error {
	limit := args.Lines
	if limit <= 0 {
		limit = DefaultLogLines
	}

	entries, err := logging.ReadEntries(env.Config.Log.Path, args.Level, limit)
	if err != nil {
		return fmt.Errorf("failed to read log %s: %w", env.Config.Log.Path, err)
	}

	w := env.stdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No log records in "+env.Config.Log.Path))
		return nil
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		level := e.Level
		switch level {
		case "ERROR":
			level = ErrorStyle.Render(level)
		case "WARN":
			level = WarningStyle.Render(level)
		}
		name := ""
		if e.Logger != "" {
			name = e.Logger + ": "
		}
		fmt.Fprintf(w, "%s %-5s %s%s%s\n", DimStyle.Render(e.Timestamp), level, name, e.Message, formatFields(e.Fields))
	}
	return nil
}

func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return DimStyle.Render(b.String())
}
