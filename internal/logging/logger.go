// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the file-only zap logger used by gridterm.
//
// The TUI owns the terminal, so nothing is ever written to stdout or stderr.
// Records go to a lumberjack-rotated JSON file instead.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// ROTATION DEFAULTS
// =============================================================================

const (
	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 30
)

// =============================================================================
// LOGGER
// =============================================================================

// Logger wraps a zap logger whose level can change at runtime.
type Logger struct {
	*zap.Logger

	level   zap.AtomicLevel
	rotator *lumberjack.Logger
	path    string
}

// New creates a logger that writes JSON lines to path only. An empty path
// returns a no-op logger.
func New(path, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	atomic := zap.NewAtomicLevelAt(lvl)

	if path == "" {
		return &Logger{Logger: zap.NewNop(), level: atomic}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(EncoderConfig()),
		zapcore.AddSync(rotator),
		atomic,
	)

	return &Logger{
		Logger:  zap.New(core, zap.AddCaller()),
		level:   atomic,
		rotator: rotator,
		path:    path,
	}, nil
}

// EncoderConfig is the JSON layout of every record.
func EncoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.MessageKey = "message"
	ec.LevelKey = "level"
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	return ec
}

// ParseLevel accepts debug, info, warn or error. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// SetLevel changes the minimum level. Used on config reload.
func (l *Logger) SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Level returns the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Path returns the log file, or "" for a no-op logger.
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.Logger.Sync()
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}
