// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode session for terminals where the full console is
// unwanted (serial consoles, screen readers, scripts feeding stdin).
//
// Command: chat
// Short:   Line-mode session with input history
// Aliases: c
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /history            One line per transcript entry
//   /model              Show the active model
//   /quit, /q, /exit    Exit chat
//   Ctrl+C              Exit chat
//   Ctrl+D              Exit chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/model"
	"github.com/jeranaias/gridterm/internal/session"
	"github.com/jeranaias/gridterm/internal/ui/components"
)

// ChatPrompt is the REPL prompt, matching the console input.
const ChatPrompt = ">> "

// historyFileName lives next to config.toml.
const historyFileName = "chat_history"

// =============================================================================
// INPUT
// =============================================================================

// LineReader reads one line of input. ChatCLI is the terminal
// implementation; tests use a scripted reader.
type LineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// ChatCLI provides input history and line editing for chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads history from the config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line. Non-empty input is added to history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	c.saveHistory()
	return c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// RunChat runs the line-mode loop until the reader is exhausted or the
// user quits. A submitted query always runs to completion; ctx only stops
// the loop between prompts.
func RunChat(ctx context.Context, env *Env, in LineReader) error {
	defer in.Close()

	w := env.stdout()
	ctrl := session.NewController(env.Config.WelcomeText(), env.stamper(), env.Querier)

	welcome, _ := ctrl.State().Transcript.Last()
	printEntry(w, env, welcome)
	fmt.Fprintln(w, DimStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Fprintln(w)

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := in.Prompt(PromptStyle.Render(ChatPrompt))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(w)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if isSlashCommand(input) {
			if !handleSlashCommand(w, env, ctrl, input) {
				return nil
			}
			continue
		}

		entry, ok := ctrl.Submit(context.WithoutCancel(ctx), input)
		if !ok {
			continue
		}
		env.logger().Debug("chat query settled", zap.Bool("is_error", entry.IsError))
		printEntry(w, env, entry)
	}
}

// historyPreviewWidth caps each /history line.
const historyPreviewWidth = 72

// slashCommands are the words chat handles itself. Any other input,
// including text that merely starts with "/", is sent as a query.
var slashCommands = map[string]bool{
	"/quit": true, "/q": true, "/exit": true,
	"/help": true, "/h": true, "/?": true,
	"/history": true,
	"/model":   true,
}

func isSlashCommand(input string) bool {
	fields := strings.Fields(input)
	return len(fields) == 1 && slashCommands[strings.ToLower(fields[0])]
}

// handleSlashCommand runs a /command. It returns false when chat should end.
func handleSlashCommand(w io.Writer, env *Env, ctrl *session.Controller, input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/quit", "/q", "/exit":
		return false

	case "/help", "/h", "/?":
		printChatHelp(w)

	case "/history":
		tr := ctrl.State().Transcript
		fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("History (%d submitted)", tr.CountBySender(model.SenderUser))))
		for _, e := range tr.Entries() {
			fmt.Fprintf(w, "%s %s %s\n",
				DimStyle.Render(e.Timestamp.Format(components.TimestampLayout)),
				BadgeStyle.Render("["+badgeLabel(env, e.Sender)+"]"),
				e.Preview(historyPreviewWidth))
		}
		fmt.Fprintln(w)

	case "/model":
		fmt.Fprintln(w, RenderField("Model:", modelLabel(env.Config.Gemini.Model)))
		fmt.Fprintln(w, RenderField("Grid search:", onOff(env.Config.Gemini.Grounding)))
	}
	return true
}

func printChatHelp(w io.Writer) {
	rows := [][2]string{
		{"/help, /h", "Show available commands"},
		{"/history", "One line per transcript entry"},
		{"/model", "Show the active model"},
		{"/quit, /q", "Exit chat"},
		{"Ctrl+C", "Exit chat"},
		{"Ctrl+D", "Exit chat"},
	}
	fmt.Fprintln(w, TitleStyle.Render("Commands"))
	for _, r := range rows {
		fmt.Fprintln(w, RenderField(r[0], r[1]))
	}
	fmt.Fprintln(w)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
