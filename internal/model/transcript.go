// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is the ordered, append-only message store for one session.
// It lives in memory only and is discarded when the program exits.
//
// The zero value is an empty transcript ready for use.
type Transcript struct {
	entries []Entry
}

// Append returns a new transcript with e added at the end. The receiver is
// left unchanged, so older snapshots stay valid.
func (t Transcript) Append(e Entry) Transcript {
	next := make([]Entry, len(t.entries), len(t.entries)+1)
	copy(next, t.entries)
	e.Sources = cloneSources(e.Sources)
	return Transcript{entries: append(next, e)}
}

// Entries returns the entries in insertion order. The returned slice is a
// copy; modifying it does not affect the transcript.
func (t Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		e.Sources = cloneSources(e.Sources)
		out[i] = e
	}
	return out
}

// Len returns the number of entries.
func (t Transcript) Len() int {
	return len(t.entries)
}

// Last returns the most recent entry, or false if the transcript is empty.
func (t Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// CountBySender returns how many entries were produced by s.
func (t Transcript) CountBySender(s Sender) int {
	n := 0
	for _, e := range t.entries {
		if e.Sender == s {
			n++
		}
	}
	return n
}
