// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot query command.
//
// Command: ask
// Short:   Send one query and print the response
// Aliases: a
//
// Examples:
//   gridterm ask "latest go release"
//   gridterm ask --model pro "explain the CAP theorem"
//   gridterm ask --no-grounding --json "hello"
//
// Exit status is 1 when the response is an error entry, so scripts can
// tell a link failure from an answer.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/model"
	"github.com/jeranaias/gridterm/internal/session"
	"github.com/jeranaias/gridterm/internal/ui/components"
	"github.com/jeranaias/gridterm/internal/ui/styles"
)

// RunAsk sends args.Query through a fresh single-query session and prints
// the resulting entry.
func RunAsk(ctx context.Context, env *Env, args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrEmptyQuery
	}

	ctrl := session.NewController(env.Config.WelcomeText(), env.stamper(), env.Querier)
	entry, ok := ctrl.Submit(ctx, args.Query)
	if !ok {
		return ErrEmptyQuery
	}

	env.logger().Debug("ask settled",
		zap.Bool("is_error", entry.IsError),
		zap.Int("sources", len(entry.Sources)))

	if args.JSON {
		data := AskData{
			Query:   strings.TrimSpace(args.Query),
			Model:   env.Config.Gemini.Model,
			Content: entry.Content,
			IsError: entry.IsError,
			Sources: sourceData(entry.Sources),
		}
		resp := NewJSONResponse("ask", data)
		if entry.IsError {
			resp = NewJSONErrorResponse("ask", data, ErrLinkFailure)
		}
		if err := resp.Write(env.stdout()); err != nil {
			return err
		}
	} else {
		printEntry(env.stdout(), env, entry)
	}

	if entry.IsError {
		return ErrLinkFailure
	}
	return nil
}

func sourceData(in []model.Source) []SourceData {
	out := make([]SourceData, len(in))
	for i, s := range in {
		out[i] = SourceData{Title: s.Title, URI: s.URI}
	}
	return out
}

// =============================================================================
// ENTRY PRINTING
// =============================================================================

// badgeLabel names the speaker of an entry.
func badgeLabel(env *Env, sender model.Sender) string {
	if sender == model.SenderLink {
		return env.Config.BadgeName()
	}
	return sender.String()
}

// printEntry writes one entry: a badge line, the body, then its sources.
func printEntry(w io.Writer, env *Env, e model.Entry) {
	badge := BadgeStyle.Render("[" + badgeLabel(env, e.Sender) + "]")
	if e.IsError {
		badge = ErrorStyle.Render("[" + badgeLabel(env, e.Sender) + "]")
	}
	fmt.Fprintf(w, "%s %s\n", badge, DimStyle.Render(e.Timestamp.Format(components.TimestampLayout)))

	body := e.Content
	if e.Sender.IsMarkdown() && env.Markdown != nil {
		if rendered, err := env.Markdown.Render(e.Content); err == nil {
			body = rendered
		}
	}
	if e.IsError && env.Markdown == nil {
		body = ErrorStyle.Render(body)
	}
	fmt.Fprintln(w, body)

	if e.HasSources() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, DimStyle.Render(styles.RenderScanline(components.SourcesLabel, 0)))
		for i, s := range e.Sources {
			fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, ValueStyle.Render(s.Title), DimStyle.Render(s.URI))
		}
	}
	fmt.Fprintln(w)
}
