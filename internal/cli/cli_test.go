// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/model"
	"github.com/jeranaias/gridterm/internal/session"
)

// =============================================================================
// FAKES AND HELPERS
// =============================================================================

type fakeQuerier struct {
	mu      sync.Mutex
	result  gemini.Result
	prompts []string
}

func (f *fakeQuerier) QueryGrid(_ context.Context, prompt string) gemini.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.result
}

type seqStamper struct{ n int }

func (s *seqStamper) Next() session.Stamp {
	s.n++
	return session.Stamp{ID: fmt.Sprintf("c%d", s.n), At: time.Date(2025, 3, 4, 10, 20, s.n, 0, time.UTC)}
}

// scriptedReader replays lines, then reports EOF.
type scriptedReader struct {
	lines  []string
	closed bool
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

// upperMarkdown marks rendered bodies so tests can tell it ran.
type upperMarkdown struct{}

func (upperMarkdown) Render(s string) (string, error) { return "MD:" + s, nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.UI.Operator = "neo"
	cfg.SetDefaults()
	return cfg
}

func newEnv(q session.Querier) (*Env, *bytes.Buffer) {
	var out bytes.Buffer
	return &Env{
		Stdout:     &out,
		Stderr:     &out,
		Config:     testConfig(),
		ConfigPath: "/nonexistent/gridterm/config.toml",
		Querier:    q,
		Stamper:    &seqStamper{},
	}, &out
}

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--since=2024-01-01", "--json", "extra"}, "json")

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("lines"))
	assert.Equal(t, "2024-01-01", p.Flag("since"))
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "extra", p.Positional(1))
	assert.Equal(t, 2, p.PositionalCount())
	assert.True(t, p.HasFlag("--lines"))
	assert.False(t, p.HasFlag("missing"))
	assert.Equal(t, "", p.Positional(9))
}

func TestArgParser_UnhintedFlagTakesNextValue(t *testing.T) {
	p := NewArgParser([]string{"show", "--json", "extra"})

	assert.Equal(t, "extra", p.Flag("json"))
	assert.Equal(t, 1, p.PositionalCount())
}

func TestArgParser_BoolNamesDoNotConsume(t *testing.T) {
	p := NewArgParser([]string{"ask", "--no-grounding", "who", "won"}, "no-grounding")
	assert.True(t, p.BoolFlag("no-grounding"))
	assert.Equal(t, "who won", JoinPositionalArgs(p, 1))

	// Without the hint the next word is taken as the value.
	p = NewArgParser([]string{"ask", "--no-grounding", "who", "won"})
	assert.Equal(t, "who", p.Flag("no-grounding"))
}

func TestArgParser_ExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--json2=true", "--n=1"}, "json")
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.HasFlag("json"))
	assert.True(t, p.BoolFlag("json2"))
	assert.Equal(t, "1", p.Flag("n"))
}

func TestArgParser_DoubleDash(t *testing.T) {
	p := NewArgParser([]string{"ask", "--", "-5", "--degrees"})
	assert.Equal(t, []string{"ask", "-5", "--degrees"}, p.PositionalFrom(0))
	assert.False(t, p.HasFlag("degrees"))
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	p := NewArgParser([]string{"-n", "7"})
	n, err := p.FlagIntOrDefault(20, "lines", "n")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = NewArgParser(nil).FlagIntOrDefault(20, "lines")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = NewArgParser([]string{"--lines", "many"}).FlagIntOrDefault(20, "lines")
	assert.Error(t, err)
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		cmd   Command
		check func(*testing.T, Args)
	}{
		{"no args", nil, CmdTUI, nil},
		{"tui", []string{"tui", "--model", "pro"}, CmdTUI, func(t *testing.T, a Args) {
			assert.Equal(t, "pro", a.Model)
		}},
		{"ask joins words", []string{"ask", "what", "is", "42"}, CmdAsk, func(t *testing.T, a Args) {
			assert.Equal(t, "what is 42", a.Query)
		}},
		{"ask with flags around", []string{"--config", "/tmp/c.toml", "ask", "--no-grounding", "hello", "--json"}, CmdAsk, func(t *testing.T, a Args) {
			assert.Equal(t, "hello", a.Query)
			assert.True(t, a.NoGrounding)
			assert.True(t, a.JSON)
			assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
		}},
		{"ask alias", []string{"a", "q"}, CmdAsk, nil},
		{"chat", []string{"chat", "-m", "flash-lite"}, CmdChat, func(t *testing.T, a Args) {
			assert.Equal(t, "flash-lite", a.Model)
		}},
		{"config default show", []string{"config"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "show", a.Subcommand)
		}},
		{"config init force", []string{"config", "init", "--force"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "init", a.Subcommand)
			assert.True(t, a.Force)
		}},
		{"models", []string{"models"}, CmdModels, nil},
		{"logs", []string{"logs", "-n", "5", "--level", "error"}, CmdLogs, func(t *testing.T, a Args) {
			assert.Equal(t, 5, a.Lines)
			assert.Equal(t, "error", a.Level)
		}},
		{"version", []string{"version"}, CmdVersion, nil},
		{"--version", []string{"--version"}, CmdVersion, nil},
		{"help", []string{"help"}, CmdHelp, nil},
		{"-h", []string{"ask", "-h"}, CmdHelp, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, argv := range [][]string{
		{"frobnicate"},
		{"config", "delete"},
		{"logs", "-n", "lots"},
	} {
		_, _, err := Parse(argv)
		require.Error(t, err, argv)
		assert.Equal(t, ExitUsageError, GetExitCode(err), argv)
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "ask", CmdAsk.String())
	assert.Equal(t, "unknown", Command(99).String())
}

// =============================================================================
// CONFIG LOADING TESTS
// =============================================================================

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	for _, k := range []string{config.EnvAPIKey, config.EnvGeminiAPIKey, config.EnvModel, config.EnvGrounding, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[gemini]\nmodel = \"flash\"\ngrounding = true\n"), 0600))

	cfg, used, err := LoadConfig(Args{ConfigPath: path, Model: "pro", NoGrounding: true})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.False(t, cfg.Gemini.Grounding)
}

func TestLoadConfig_BadFile(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"shout\"\n"), 0600))

	_, _, err := LoadConfig(Args{ConfigPath: path})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
	assert.Contains(t, err.Error(), path)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{ErrLinkFailure, ExitGeneralError},
		{ErrEmptyQuery, ExitUsageError},
		{NewUsageError("bad"), ExitUsageError},
		{&ConfigError{Err: errors.New("x")}, ExitConfigError},
		{fmt.Errorf("wrapped: %w", config.ValidateErrors{{Field: "f", Message: "m"}}), ExitConfigError},
		{errors.New("other"), ExitGeneralError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetExitCode(tt.err), "%v", tt.err)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	ReportError(&buf, ErrLinkFailure)
	assert.Empty(t, buf.String(), "link failures are already on screen")

	ReportError(&buf, NewUsageError("unknown command"))
	assert.Contains(t, buf.String(), "unknown command")
	assert.Contains(t, buf.String(), "gridterm help")
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestRunAsk_Success(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{
		Text:    "Result: 42",
		Sources: []model.Source{{Title: "X", URI: "https://x"}, {Title: "https://y", URI: "https://y"}},
	}}
	env, out := newEnv(q)

	err := RunAsk(context.Background(), env, Args{Query: "  find 42 "})
	require.NoError(t, err)

	assert.Equal(t, []string{"find 42"}, q.prompts)
	s := out.String()
	assert.Contains(t, s, "[BLACK3PANTHER]")
	assert.Contains(t, s, "10:20:")
	assert.Contains(t, s, "Result: 42")
	assert.Contains(t, s, "Network Nodes Detected")
	assert.Less(t, strings.Index(s, "https://x"), strings.Index(s, "https://y"))
}

func TestRunAsk_ErrorEntryExitsNonZero(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{Text: gemini.MissingKeyText}}
	env, out := newEnv(q)

	err := RunAsk(context.Background(), env, Args{Query: "status"})
	require.ErrorIs(t, err, ErrLinkFailure)
	assert.Equal(t, 1, GetExitCode(err))
	assert.Contains(t, out.String(), "API Key")
}

func TestRunAsk_SignalJamIsNotAnError(t *testing.T) {
	env, _ := newEnv(&fakeQuerier{result: gemini.Result{Text: gemini.SignalJamText}})
	assert.NoError(t, RunAsk(context.Background(), env, Args{Query: "q"}))
}

func TestRunAsk_EmptyQuery(t *testing.T) {
	q := &fakeQuerier{}
	env, _ := newEnv(q)

	err := RunAsk(context.Background(), env, Args{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, q.prompts)
}

func TestRunAsk_Markdown(t *testing.T) {
	env, out := newEnv(&fakeQuerier{result: gemini.Result{Text: "**bold**"}})
	env.Markdown = upperMarkdown{}

	require.NoError(t, RunAsk(context.Background(), env, Args{Query: "q"}))
	assert.Contains(t, out.String(), "MD:**bold**")
}

func TestRunAsk_JSON(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{
		Text:    "ok",
		Sources: []model.Source{{Title: "X", URI: "https://x"}},
	}}
	env, out := newEnv(q)

	require.NoError(t, RunAsk(context.Background(), env, Args{Query: "q", JSON: true}))

	var resp struct {
		Success bool    `json:"success"`
		Data    AskData `json:"data"`
		Error   *string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "ok", resp.Data.Content)
	assert.Equal(t, gemini.DefaultModel, resp.Data.Model)
	assert.Equal(t, []SourceData{{Title: "X", URI: "https://x"}}, resp.Data.Sources)
}

func TestRunAsk_JSONError(t *testing.T) {
	env, out := newEnv(&fakeQuerier{result: gemini.Result{Text: gemini.FailureText(errors.New("quota"))}})

	err := RunAsk(context.Background(), env, Args{Query: "q", JSON: true})
	require.ErrorIs(t, err, ErrLinkFailure)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestRunChat_Session(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{Text: "ack"}}
	env, out := newEnv(q)
	in := &scriptedReader{lines: []string{"hello", "   ", "/model", "/history", "second", "/quit", "never"}}

	require.NoError(t, RunChat(context.Background(), env, in))

	assert.True(t, in.closed)
	assert.Equal(t, []string{"hello", "second"}, q.prompts)
	s := out.String()
	assert.Contains(t, s, "User: **neo**", "welcome banner printed first")
	assert.Contains(t, s, "ack")
	assert.Contains(t, s, "Gemini 2.5 Flash")
	assert.Contains(t, s, TitleStyle.Render("History (1 submitted)"))
	assert.Contains(t, s, BadgeStyle.Render("[USER]")+" hello", "history lists user input")
}

func TestRunChat_HistoryTruncatesLongEntries(t *testing.T) {
	long := strings.Repeat("grid ", 40)
	q := &fakeQuerier{result: gemini.Result{Text: "ack"}}
	env, out := newEnv(q)

	require.NoError(t, RunChat(context.Background(), env, &scriptedReader{lines: []string{long, "/history"}}))

	preview := model.NewUserEntry("x", time.Time{}, long).Preview(historyPreviewWidth)
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Contains(t, out.String(), BadgeStyle.Render("[USER]")+" "+preview)
}

func TestRunChat_EOFEnds(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{Text: "ack"}}
	env, _ := newEnv(q)
	require.NoError(t, RunChat(context.Background(), env, &scriptedReader{lines: []string{"one"}}))
	assert.Equal(t, []string{"one"}, q.prompts)
}

func TestRunChat_OnlyKnownSlashCommandsAreIntercepted(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{Text: "ack"}}
	env, out := newEnv(q)
	lines := []string{"/bogus", "/help", "exit", "quit", "/usr/bin is where?", "/model gemini", "/QUIT", "ignored"}

	require.NoError(t, RunChat(context.Background(), env, &scriptedReader{lines: lines}))

	assert.Equal(t, []string{"/bogus", "exit", "quit", "/usr/bin is where?", "/model gemini"}, q.prompts)
	assert.Contains(t, out.String(), "Commands")
}

func TestIsSlashCommand(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/quit", true},
		{"/Q", true},
		{"/history", true},
		{"/model", true},
		{"/?", true},
		{"/bogus", false},
		{"/model extra", false},
		{"exit", false},
		{"quit", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isSlashCommand(tt.in))
		})
	}
}

func TestRunChat_ErrorEntryDoesNotEndSession(t *testing.T) {
	q := &fakeQuerier{result: gemini.Result{Text: gemini.MissingKeyText}}
	env, _ := newEnv(q)
	require.NoError(t, RunChat(context.Background(), env, &scriptedReader{lines: []string{"a", "b"}}))
	assert.Equal(t, []string{"a", "b"}, q.prompts)
}

// =============================================================================
// CONFIG / MODELS / LOGS / VERSION TESTS
// =============================================================================

func TestRunConfig_Path(t *testing.T) {
	env, out := newEnv(nil)
	require.NoError(t, RunConfig(env, Args{Subcommand: "path"}))
	assert.Equal(t, env.ConfigPath+"\n", out.String())
}

func TestRunConfig_ShowRedactsKey(t *testing.T) {
	env, out := newEnv(nil)
	env.Config.Gemini.APIKey = "very-secret-key"

	require.NoError(t, RunConfig(env, Args{Subcommand: "show"}))
	s := out.String()
	assert.NotContains(t, s, "very-secret-key")
	assert.Contains(t, s, "fingerprint")
	assert.Contains(t, s, "not found, using defaults")

	out.Reset()
	require.NoError(t, RunConfig(env, Args{Subcommand: "show", JSON: true}))
	assert.NotContains(t, out.String(), "very-secret-key")
	assert.Contains(t, out.String(), "[REDACTED]")
}

func TestRunConfig_Init(t *testing.T) {
	env, out := newEnv(nil)
	env.ConfigPath = filepath.Join(t.TempDir(), "gridterm", "config.toml")

	require.NoError(t, RunConfig(env, Args{Subcommand: "init"}))
	assert.Contains(t, out.String(), "Wrote")
	_, err := os.Stat(env.ConfigPath)
	require.NoError(t, err)

	err = RunConfig(env, Args{Subcommand: "init"})
	require.ErrorIs(t, err, ErrConfigExists)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	assert.NoError(t, RunConfig(env, Args{Subcommand: "init", Force: true}))
}

func TestRunModels(t *testing.T) {
	env, out := newEnv(nil)
	require.NoError(t, RunModels(env, Args{}))
	s := out.String()
	for _, alias := range gemini.ModelAliases() {
		assert.Contains(t, s, alias)
	}
	assert.Contains(t, s, gemini.DefaultModel)

	out.Reset()
	require.NoError(t, RunModels(env, Args{JSON: true}))
	var resp struct {
		Data []ModelData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	active := 0
	for _, m := range resp.Data {
		if m.Active {
			active++
			assert.Equal(t, gemini.DefaultModel, m.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestRunLogs(t *testing.T) {
	env, out := newEnv(nil)
	env.Config.Log.Path = filepath.Join(t.TempDir(), "gridterm.log")

	require.NoError(t, RunLogs(env, Args{}))
	assert.Contains(t, out.String(), "No log records")

	lines := `{"level":"INFO","timestamp":"2025-01-01T00:00:00Z","logger":"gemini","message":"query settled","model":"gemini-2.5-flash"}
{"level":"ERROR","timestamp":"2025-01-01T00:00:01Z","logger":"gemini","message":"query failed"}
`
	require.NoError(t, os.WriteFile(env.Config.Log.Path, []byte(lines), 0600))

	out.Reset()
	require.NoError(t, RunLogs(env, Args{}))
	s := out.String()
	assert.Less(t, strings.Index(s, "query settled"), strings.Index(s, "query failed"), "oldest first")
	assert.Contains(t, s, "model=gemini-2.5-flash")

	out.Reset()
	require.NoError(t, RunLogs(env, Args{Level: "error"}))
	assert.NotContains(t, out.String(), "query settled")
}

func TestRunVersion(t *testing.T) {
	env, out := newEnv(nil)
	require.NoError(t, RunVersion(env, Args{}))
	assert.Contains(t, out.String(), "gridterm version "+Version)

	out.Reset()
	require.NoError(t, RunVersion(env, Args{JSON: true}))
	var resp struct {
		Data VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, Version, resp.Data.Version)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, cmd := range []string{"ask", "chat", "config", "models", "logs", "--no-grounding"} {
		assert.Contains(t, buf.String(), cmd)
	}
}
