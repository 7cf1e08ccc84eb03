// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridterm.log")
	l, err := New(path, "info")
	require.NoError(t, err)

	l.Named("gemini").Info("query settled", zap.String("model", "gemini-2.5-flash"))
	l.Debug("hidden")
	require.NoError(t, l.Close())

	entries, err := ReadEntries(path, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "gemini", entries[0].Logger)
	assert.Equal(t, "query settled", entries[0].Message)
	assert.Equal(t, "gemini-2.5-flash", entries[0].Fields["model"])
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	l, err := New("", "debug")
	require.NoError(t, err)
	l.Info("nowhere")
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridterm.log")
	l, err := New(path, "warn")
	require.NoError(t, err)

	l.Info("dropped")
	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, l.Level())
	l.Debug("kept")
	assert.Error(t, l.SetLevel("verbose"))
	require.NoError(t, l.Close())

	entries, err := ReadEntries(path, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"nope", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestReadEntries_FilterAndLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridterm.log")
	lines := `{"level":"INFO","timestamp":"t1","message":"one"}
not json
{"level":"ERROR","timestamp":"t2","message":"two","error":"boom"}
{"level":"INFO","timestamp":"t3","message":"three"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0600))

	all, err := ReadEntries(path, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Message, "newest first")

	errs, err := ReadEntries(path, "error", 0)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Fields["error"])

	last, err := ReadEntries(path, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, []string{last[0].Message, last[1].Message})
}

func TestReadEntries_MissingFile(t *testing.T) {
	entries, err := ReadEntries(filepath.Join(t.TempDir(), "absent.log"), "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
