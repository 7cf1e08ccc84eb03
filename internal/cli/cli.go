// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command routing, usage text and shared command environment.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/session"
	"github.com/jeranaias/gridterm/internal/ui/components"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdModels
	CmdLogs
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdModels:
		return "models"
	case CmdLogs:
		return "logs"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath  string
	Model       string
	NoGrounding bool
	JSON        bool

	// Command-specific
	Query      string
	Subcommand string
	Force      bool
	Lines      int
	Level      string

	// Raw holds the arguments after the command name.
	Raw []string
}

// boolFlags never consume the next argument.
var boolFlags = []string{"no-grounding", "json", "force", "help", "h", "version"}

const usageText = `gridterm - terminal console for grounded Gemini queries

Usage:
  gridterm                       Start the console (default)
  gridterm ask "query"           Send one query and print the response
  gridterm chat                  Line-mode session with input history
  gridterm config [show|path|init]
                                 Show, locate or create the config file
  gridterm models                List known models
  gridterm logs [-n N] [--level L]
                                 Show recent log records
  gridterm version               Show version information
  gridterm help                  Show this help

Global flags:
  --config PATH                  Use PATH instead of ~/.gridterm/config.toml
  --model ID                     Model id or alias (flash, flash-lite, pro, flash-2.0)
  --no-grounding                 Disable Google Search grounding
  --json                         Machine-readable output (ask, config, models, version)

Environment:
  GRIDTERM_API_KEY, GEMINI_API_KEY   API key (GRIDTERM_API_KEY wins)
  GRIDTERM_MODEL                     Model override
  GRIDTERM_GROUNDING                 true/false
  GRIDTERM_LOG_LEVEL                 debug, info, warn, error

Console keys:
  Enter submit   Esc/Ctrl+C quit   Up/Down/PgUp/PgDn scroll

Version: %s
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments (without the program name).
// Global flags may appear before or after the command.
func Parse(argv []string) (Command, Args, error) {
	p := NewArgParser(argv, boolFlags...)

	args := Args{
		ConfigPath:  p.Flag("config"),
		Model:       p.Flag("model", "m"),
		NoGrounding: p.BoolFlag("no-grounding"),
		JSON:        p.BoolFlag("json"),
		Force:       p.BoolFlag("force"),
		Level:       p.Flag("level"),
		Raw:         p.PositionalFrom(1),
	}

	lines, err := p.FlagIntOrDefault(0, "lines", "n")
	if err != nil {
		return CmdHelp, args, err
	}
	args.Lines = lines

	if p.BoolFlag("help", "h") {
		return CmdHelp, args, nil
	}
	if p.BoolFlag("version") {
		return CmdVersion, args, nil
	}

	switch cmd := strings.ToLower(p.Subcommand()); cmd {
	case "", "tui":
		return CmdTUI, args, nil

	case "ask", "a":
		args.Query = strings.TrimSpace(JoinPositionalArgs(p, 1))
		return CmdAsk, args, nil

	case "chat", "c":
		return CmdChat, args, nil

	case "config":
		args.Subcommand = strings.ToLower(p.Positional(1))
		if args.Subcommand == "" {
			args.Subcommand = "show"
		}
		switch args.Subcommand {
		case "show", "path", "init":
		default:
			return CmdConfig, args, NewUsageError(fmt.Sprintf("unknown config subcommand %q (show, path, init)", args.Subcommand))
		}
		return CmdConfig, args, nil

	case "models":
		return CmdModels, args, nil

	case "logs", "log":
		return CmdLogs, args, nil

	case "version":
		return CmdVersion, args, nil

	case "help":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, NewUsageError(fmt.Sprintf("unknown command %q (see gridterm help)", cmd))
	}
}

// =============================================================================
// CONFIG LOADING
// =============================================================================

// LoadConfig loads the config named by --config (or the default path) and
// applies the --model and --no-grounding flags on top. It returns the path
// that was used.
func LoadConfig(args Args) (*config.Config, string, error) {
	path := args.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, "", &ConfigError{Err: err}
		}
		path = p
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, &ConfigError{Path: path, Err: err}
	}

	ApplyFlags(cfg, args)
	return cfg, path, nil
}

// ApplyFlags applies --model and --no-grounding to cfg. Reloads call it
// again so a hot reload never undoes what the command line asked for.
func ApplyFlags(cfg *config.Config, args Args) {
	if args.Model != "" {
		cfg.Gemini.Model = gemini.ResolveModel(args.Model)
	}
	if args.NoGrounding {
		cfg.Gemini.Grounding = false
	}
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env carries what the line-mode commands need. main builds one; tests
// build their own with fakes.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	Config     *config.Config
	ConfigPath string

	Querier session.Querier
	Stamper session.Stamper
	Logger  *zap.Logger

	// Markdown renders LINK and SYSTEM bodies. Nil prints them raw, which
	// is what piped output gets.
	Markdown components.Markdown
}

func (e *Env) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

func (e *Env) stderr() io.Writer {
	if e.Stderr == nil {
		return os.Stderr
	}
	return e.Stderr
}

func (e *Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Env) stamper() session.Stamper {
	if e.Stamper == nil {
		return session.NewClockStamper()
	}
	return e.Stamper
}

// =============================================================================
// SIMPLE COMMANDS
// =============================================================================

// RunVersion prints version information.
func RunVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(env.stdout())
	}

	w := env.stdout()
	fmt.Fprintf(w, "gridterm version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
	return nil
}

// ReportError prints err the way the command line shows failures. Link
// failures were already printed as entries and are not repeated.
func ReportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, ErrLinkFailure) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)
	var usageErr *UsageError
	if errors.As(err, &usageErr) || errors.Is(err, ErrEmptyQuery) {
		fmt.Fprintln(w, DimStyle.Render("Run 'gridterm help' for usage."))
	}
}
