// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/gridterm/internal/model"
	"github.com/jeranaias/gridterm/internal/ui/styles"
	"github.com/jeranaias/gridterm/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// TimestampLayout is the 24h clock format shown next to each badge.
	TimestampLayout = "15:04:05"

	// UserPrefix is shown before operator input.
	UserPrefix = ">> "

	// SourcesLabel heads the citation list of a grounded reply.
	SourcesLabel = "Network Nodes Detected"

	// PlaceholderTitle and PlaceholderText make up the in-flight indicator.
	PlaceholderTitle = "UPLINK_ESTABLISHING..."
	PlaceholderText  = "Bypassing firewalls, Sir... Decrypting global nodes... Scanning the Grid..."

	// DefaultEngineName is the badge shown on LINK entries.
	DefaultEngineName = "BLACK3PANTHER"
)

// =============================================================================
// PROJECTION
// =============================================================================

// RowKind distinguishes stored entries from the transient placeholder.
type RowKind int

const (
	RowEntry RowKind = iota
	RowPlaceholder
)

// Row is one renderable block of the transcript.
type Row struct {
	Kind     RowKind
	ID       string
	Sender   model.Sender
	Time     string
	Body     string
	Markdown bool
	Sources  []model.Source
	IsError  bool
}

// Project maps entries to rows in order. When busy, a placeholder row is
// appended; it is never part of the transcript.
func Project(entries []model.Entry, busy bool) []Row {
	rows := make([]Row, 0, len(entries)+1)
	for _, e := range entries {
		rows = append(rows, Row{
			Kind:     RowEntry,
			ID:       e.ID,
			Sender:   e.Sender,
			Time:     e.Timestamp.Format(TimestampLayout),
			Body:     e.Content,
			Markdown: e.Sender.IsMarkdown(),
			Sources:  e.Sources,
			IsError:  e.IsError,
		})
	}
	if busy {
		rows = append(rows, Row{Kind: RowPlaceholder, Sender: model.SenderLink})
	}
	return rows
}

// =============================================================================
// TRANSCRIPT VIEW
// =============================================================================

// TranscriptView renders projected rows for the viewport.
type TranscriptView struct {
	EngineName string
	Width      int
	theme      *styles.Theme
	md         Markdown
}

// NewTranscriptView creates a view. A nil md renders bodies as plain text.
func NewTranscriptView(theme *styles.Theme, md Markdown, engineName string) *TranscriptView {
	if engineName == "" {
		engineName = DefaultEngineName
	}
	if md == nil {
		md = PlainMarkdown{}
	}
	return &TranscriptView{
		EngineName: engineName,
		Width:      80,
		theme:      theme,
		md:         md,
	}
}

// SetWidth updates the render width.
func (v *TranscriptView) SetWidth(width int) {
	v.Width = width
}

// SetMarkdown swaps the markdown renderer.
func (v *TranscriptView) SetMarkdown(md Markdown) {
	if md == nil {
		md = PlainMarkdown{}
	}
	v.md = md
}

// BadgeLabel returns the badge text for a sender.
func (v *TranscriptView) BadgeLabel(s model.Sender) string {
	if s == model.SenderLink {
		return v.EngineName
	}
	return s.String()
}

// Render renders all rows separated by blank lines.
func (v *TranscriptView) Render(rows []Row) string {
	blocks := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Kind == RowPlaceholder {
			blocks = append(blocks, v.renderPlaceholder())
			continue
		}
		blocks = append(blocks, v.renderRow(r))
	}
	return strings.Join(blocks, "\n\n")
}

func (v *TranscriptView) renderRow(r Row) string {
	var b strings.Builder
	b.WriteString(v.renderRule(v.theme.BadgeFor(r.Sender.String(), r.IsError).Render(v.BadgeLabel(r.Sender)), "["+r.Time+"]"))
	b.WriteString("\n")
	b.WriteString(v.renderBody(r))
	if len(r.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(v.renderSources(r.Sources))
	}
	return b.String()
}

// renderRule draws "BADGE [time] ────" across the width.
func (v *TranscriptView) renderRule(badge, stamp string) string {
	head := badge + " " + v.theme.Timestamp.Render(stamp)
	fill := v.Width - lipgloss.Width(head) - 1
	if fill < 1 {
		return head
	}
	return head + " " + v.theme.HeaderMeta.Render(strings.Repeat("─", fill))
}

func (v *TranscriptView) renderBody(r Row) string {
	if !r.Markdown {
		return v.theme.BodyUser.Render(UserPrefix + r.Body)
	}
	body := renderMarkdown(v.md, r.Body)
	if r.IsError {
		return v.theme.BodyError.Render(body)
	}
	return v.theme.BodyText.Render(body)
}

func (v *TranscriptView) renderSources(sources []model.Source) string {
	lines := []string{v.theme.SourcesLabel.Render(styles.RenderScanline(SourcesLabel, 0))}

	titleWidth := v.Width / 3
	if titleWidth < 12 {
		titleWidth = 12
	}
	for _, s := range sources {
		title := util.TruncateWidth(s.Title, titleWidth)
		line := fmt.Sprintf("%s%s  %s",
			v.theme.SourceIndex.Render("# "),
			v.theme.SourceTitle.Render(title),
			v.theme.SourceURI.Render(s.URI))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (v *TranscriptView) renderPlaceholder() string {
	badge := v.theme.BadgeLink.Render(v.EngineName)
	head := badge + " " + v.theme.PlaceholderTitle.Render(PlaceholderTitle)
	return head + "\n" + v.theme.PlaceholderText.Render(PlaceholderText)
}
