// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the transcript types shown in the console.
//
// # Key Types
//
//   - Entry: one immutable transcript record (sender, content, timestamp, sources)
//   - Sender: SYSTEM, USER or LINK
//   - Source: a citation (title + URI) returned with a grounded answer
//   - Transcript: the append-only, in-memory message store for one session
//
// # Usage
//
//	t := model.Transcript{}.Append(model.NewSystemEntry(id, now, welcome))
//	t = t.Append(model.NewUserEntry(id2, now, "find 42"))
//	for _, e := range t.Entries() {
//	    fmt.Println(e.Sender, e.Content)
//	}
//
// Entries are values. Appending never mutates an existing Transcript, so a
// snapshot handed to the renderer cannot change underneath it.
package model
