// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// =============================================================================
// ENTRY TESTS
// =============================================================================

func TestNewLinkEntry_IsErrorDerivedFromSentinel(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain answer", "42 is the answer.", false},
		{"sentinel prefix", "[SYSTEM ERROR]: Sir, a critical link failure occurred.", true},
		{"sentinel mid-text", "note: [SYSTEM ERROR] appeared here", true},
		{"signal jam", "[SIGNAL JAM] Node connection failed, Sir.", false},
		{"lowercase is not sentinel", "[system error]", false},
		{"empty", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewLinkEntry("id", testTime, tc.content, nil)
			if e.IsError != tc.want {
				t.Errorf("IsError = %v, want %v", e.IsError, tc.want)
			}
			if e.Sender != SenderLink {
				t.Errorf("Sender = %v, want LINK", e.Sender)
			}
		})
	}
}

func TestNewUserEntry_NeverError(t *testing.T) {
	e := NewUserEntry("u1", testTime, "[SYSTEM ERROR] typed by hand")
	if e.IsError {
		t.Error("user entries should never be flagged as errors")
	}
	if e.Sender.IsMarkdown() {
		t.Error("user content should not be rendered as markdown")
	}
}

func TestNewLinkEntry_CopiesSources(t *testing.T) {
	src := []Source{{Title: "A", URI: "https://a"}}
	e := NewLinkEntry("l1", testTime, "x", src)

	src[0].Title = "mutated"
	if e.Sources[0].Title != "A" {
		t.Errorf("entry source changed with caller slice: %q", e.Sources[0].Title)
	}
	if !e.HasSources() {
		t.Error("HasSources() = false, want true")
	}
}

func TestNewLinkEntry_EmptySourcesNil(t *testing.T) {
	e := NewLinkEntry("l1", testTime, "x", []Source{})
	if e.Sources != nil || e.HasSources() {
		t.Errorf("Sources = %v, want nil", e.Sources)
	}
}

func TestEntry_Preview(t *testing.T) {
	e := NewUserEntry("u", testTime, "hello\n  wide   world")
	if got := e.Preview(50); got != "hello wide world" {
		t.Errorf("Preview(50) = %q", got)
	}
	if got := e.Preview(8); got != "hello..." {
		t.Errorf("Preview(8) = %q", got)
	}
	if got := NewUserEntry("u", testTime, "日本語テキスト").Preview(5); got != "日本..." {
		t.Errorf("Preview unicode = %q", got)
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_ZeroValue(t *testing.T) {
	var tr Transcript
	if tr.Len() != 0 {
		t.Fatalf("zero transcript should be empty, Len() = %d", tr.Len())
	}
	if _, ok := tr.Last(); ok {
		t.Error("Last() on empty transcript should return false")
	}
}

func TestTranscript_AppendPreservesOrder(t *testing.T) {
	tr := Transcript{}.
		Append(NewSystemEntry("s", testTime, "welcome")).
		Append(NewUserEntry("u", testTime, "q")).
		Append(NewLinkEntry("l", testTime, "a", nil))

	want := []Sender{SenderSystem, SenderUser, SenderLink}
	got := tr.Entries()
	if len(got) != len(want) {
		t.Fatalf("Len = %d, want %d", len(got), len(want))
	}
	for i, s := range want {
		if got[i].Sender != s {
			t.Errorf("entry %d sender = %v, want %v", i, got[i].Sender, s)
		}
	}

	last, ok := tr.Last()
	if !ok || last.ID != "l" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
	if tr.CountBySender(SenderUser) != 1 {
		t.Errorf("CountBySender(USER) = %d, want 1", tr.CountBySender(SenderUser))
	}
}

func TestTranscript_AppendDoesNotMutateReceiver(t *testing.T) {
	base := Transcript{}.Append(NewSystemEntry("s", testTime, "welcome"))
	a := base.Append(NewUserEntry("a", testTime, "first"))
	b := base.Append(NewUserEntry("b", testTime, "second"))

	if base.Len() != 1 {
		t.Errorf("base Len = %d, want 1", base.Len())
	}
	ea, _ := a.Last()
	eb, _ := b.Last()
	if ea.ID != "a" || eb.ID != "b" {
		t.Errorf("branches share storage: a=%q b=%q", ea.ID, eb.ID)
	}
}

func TestTranscript_EntriesIsCopy(t *testing.T) {
	tr := Transcript{}.Append(NewLinkEntry("l", testTime, "a", []Source{{Title: "t", URI: "u"}}))

	got := tr.Entries()
	got[0].Content = "changed"
	got[0].Sources[0].URI = "changed"

	e := tr.Entries()[0]
	if e.Content != "a" {
		t.Errorf("content mutated through Entries(): %q", e.Content)
	}
	if e.Sources[0].URI != "u" {
		t.Errorf("source mutated through Entries(): %q", e.Sources[0].URI)
	}
}
