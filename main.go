// gridterm - a terminal console for grounded Gemini queries.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/gridterm/internal/cli"
	"github.com/jeranaias/gridterm/internal/config"
	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/logging"
	"github.com/jeranaias/gridterm/internal/session"
	"github.com/jeranaias/gridterm/internal/ui/chat"
	"github.com/jeranaias/gridterm/internal/ui/components"
	"github.com/jeranaias/gridterm/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run routes to the command and returns the exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.ReportError(os.Stderr, err)
		return cli.GetExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		return exit(cli.RunVersion(&cli.Env{}, args))
	}

	cfg, cfgPath, err := cli.LoadConfig(args)
	if err != nil {
		cli.ReportError(os.Stderr, err)
		return cli.GetExitCode(err)
	}
	config.SetGlobal(cfg)

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger, _ = logging.New("", "")
	}
	defer logger.Close()

	logger.Info("gridterm starting",
		zap.String("command", cmd.String()),
		zap.String("version", Version),
		zap.String("config", cfgPath),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("grounding", cfg.Gemini.Grounding),
		zap.Bool("has_key", cfg.HasAPIKey()))

	client := gemini.NewClient(cfg.GeminiSettings()).WithLogger(logger.Logger)

	env := &cli.Env{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Config:     cfg,
		ConfigPath: cfgPath,
		Querier:    client,
		Stamper:    session.NewClockStamper(),
		Logger:     logger.Logger,
	}
	if cli.IsStdoutTTY() {
		wrap := cfg.UI.WordWrap
		if wrap <= 0 {
			wrap = cli.GetTerminalWidth() - 4
		}
		env.Markdown = components.NewMarkdown(cfg.UI.MarkdownStyle, wrap)
	}

	switch cmd {
	case cli.CmdTUI:
		return exit(runTUI(cfg, cfgPath, args, client, logger))

	case cli.CmdAsk:
		return exit(cli.RunAsk(context.Background(), env, args))

	case cli.CmdChat:
		// SIGTERM ends the loop at the next prompt. Ctrl+C at the prompt is
		// read by liner, and anywhere else it ends the process.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer stop()
		return exit(cli.RunChat(ctx, env, cli.NewChatCLI()))

	case cli.CmdConfig:
		return exit(cli.RunConfig(env, args))

	case cli.CmdModels:
		return exit(cli.RunModels(env, args))

	case cli.CmdLogs:
		return exit(cli.RunLogs(env, args))
	}

	cli.PrintUsage(os.Stdout)
	return cli.ExitUsageError
}

func exit(err error) int {
	cli.ReportError(os.Stderr, err)
	return cli.GetExitCode(err)
}

// =============================================================================
// CONSOLE
// =============================================================================

func runTUI(cfg *config.Config, cfgPath string, args cli.Args, client *gemini.Client, logger *logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := chat.New(styles.NewTheme(), session.NewClockStamper(), client, chat.Options{
		Welcome:       cfg.WelcomeText(),
		EngineName:    cfg.BadgeName(),
		HUDTitle:      cfg.HUDTitle(),
		Model:         cfg.Gemini.Model,
		Grounding:     cfg.Gemini.Grounding,
		Online:        cfg.HasAPIKey(),
		MarkdownStyle: cfg.UI.MarkdownStyle,
		WordWrap:      cfg.UI.WordWrap,
		Context:       ctx,
		Logger:        logger.Logger,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse wheel scrolling
		tea.WithContext(ctx),
	)

	if w := startWatcher(cfgPath, args, client, logger, p); w != nil {
		defer w.Close()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console failed: %w", err)
	}
	logger.Info("gridterm exiting")
	return nil
}

// startWatcher wires config hot reload into the running program. A failure
// to watch is logged and the console runs without reload.
func startWatcher(cfgPath string, args cli.Args, client *gemini.Client, logger *logging.Logger, p *tea.Program) *config.Watcher {
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0700); err != nil {
		logger.Warn("config reload unavailable", zap.Error(err))
		return nil
	}

	w, err := config.NewWatcher(cfgPath, func(cfg *config.Config, err error) {
		if err != nil {
			p.Send(chat.ConfigReloadedMsg{Err: err})
			return
		}
		cli.ApplyFlags(cfg, args)
		client.Reconfigure(cfg.GeminiSettings())
		if lerr := logger.SetLevel(cfg.Log.Level); lerr != nil {
			logger.Warn("log level unchanged", zap.Error(lerr))
		}
		p.Send(chat.ConfigReloadedMsg{
			Model:         cfg.Gemini.Model,
			Grounding:     cfg.Gemini.Grounding,
			Online:        cfg.HasAPIKey(),
			MarkdownStyle: cfg.UI.MarkdownStyle,
			WordWrap:      cfg.UI.WordWrap,
		})
	}, logger.Logger)
	if err != nil {
		logger.Warn("config reload unavailable", zap.Error(err))
		return nil
	}
	if err := w.Start(); err != nil {
		logger.Warn("config reload unavailable", zap.Error(err))
		_ = w.Close()
		return nil
	}
	return w
}
