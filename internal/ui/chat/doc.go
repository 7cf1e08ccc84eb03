// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea program for the gridterm console.
//
// The Model owns a session.State and drives it through session.Reduce. A
// Dispatch effect becomes a tea.Cmd that runs the query off the UI goroutine
// and reports back with QuerySettledMsg. Every state change rebuilds the
// transcript and scrolls the viewport to the newest entry.
package chat
