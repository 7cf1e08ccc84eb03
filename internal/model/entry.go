// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// FailureSentinel marks an entry as representing a failed query.
// Error classification is a plain substring search for this marker.
const FailureSentinel = "[SYSTEM ERROR]"

// ContainsFailure reports whether text carries the failure sentinel.
func ContainsFailure(text string) bool {
	return strings.Contains(text, FailureSentinel)
}

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced an entry.
type Sender string

const (
	SenderSystem Sender = "SYSTEM" // generated locally at startup
	SenderUser   Sender = "USER"   // typed by the operator
	SenderLink   Sender = "LINK"   // returned by the external API
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// IsMarkdown reports whether content from this sender is rendered as markdown.
// Operator input is shown verbatim.
func (s Sender) IsMarkdown() bool {
	return s != SenderUser
}

// =============================================================================
// SOURCE TYPE
// =============================================================================

// Source is a citation returned alongside a grounded answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// =============================================================================
// ENTRY TYPE
// =============================================================================

// Entry is one record in the transcript. Entries are never modified after
// construction; use the New* constructors.
type Entry struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Sources is only populated on LINK entries whose answer was grounded.
	Sources []Source `json:"sources,omitempty"`

	// IsError is derived from FailureSentinel at construction.
	IsError bool `json:"is_error,omitempty"`
}

// NewSystemEntry creates the locally generated session banner.
func NewSystemEntry(id string, at time.Time, content string) Entry {
	return Entry{ID: id, Sender: SenderSystem, Content: content, Timestamp: at}
}

// NewUserEntry creates an operator entry.
func NewUserEntry(id string, at time.Time, content string) Entry {
	return Entry{ID: id, Sender: SenderUser, Content: content, Timestamp: at}
}

// NewLinkEntry creates a response entry. The sources slice is copied so the
// caller cannot alter the entry afterwards.
func NewLinkEntry(id string, at time.Time, content string, sources []Source) Entry {
	return Entry{
		ID:        id,
		Sender:    SenderLink,
		Content:   content,
		Timestamp: at,
		Sources:   cloneSources(sources),
		IsError:   ContainsFailure(content),
	}
}

// HasSources reports whether the entry carries any citations.
func (e Entry) HasSources() bool {
	return len(e.Sources) > 0
}

// Preview returns a truncated single-line preview of the content.
// Uses rune-based truncation to handle Unicode correctly.
func (e Entry) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(e.Content), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func cloneSources(in []Source) []Source {
	if len(in) == 0 {
		return nil
	}
	out := make([]Source, len(in))
	copy(out, in)
	return out
}
