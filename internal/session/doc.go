// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the request lifecycle of one console session.
//
// The lifecycle is a pure state transition function:
//
//	state, effect := session.Reduce(state, session.Submitted{Stamp: stamper.Next()})
//	if d, ok := effect.(session.Dispatch); ok {
//	    res := client.QueryGrid(ctx, d.Prompt)
//	    state, _ = session.Reduce(state, session.Settled{Stamp: stamper.Next(), Result: res})
//	}
//
// Reduce performs no I/O. The caller runs the Dispatch effect (the TUI via a
// tea.Cmd, line modes via Controller) and feeds the outcome back as Settled.
//
// # Phases
//
//   - PhaseIdle: input accepted, no query in flight
//   - PhaseAwaitingResponse: exactly one query in flight, submissions ignored
package session
