// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// GridSpinner is shown in the footer while a query is in flight.
var GridSpinner = SpinnerConfig{
	Frames: []string{"[    ]", "[=   ]", "[==  ]", "[=== ]", "[====]", "[ ===]", "[  ==]", "[   =]"},
	FPS:    8,
}

// LineSpinner - Simple line rotation, used in line mode
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame to show after elapsed time.
func (s SpinnerConfig) Frame(elapsed time.Duration) string {
	if len(s.Frames) == 0 {
		return ""
	}
	i := int(elapsed/s.Duration()) % len(s.Frames)
	return s.Frames[i]
}

// =============================================================================
// RULES
// =============================================================================

// RenderScanline returns a horizontal rule of width columns with label
// centered in it, e.g. "── Network Nodes Detected ──".
func RenderScanline(label string, width int) string {
	if label == "" {
		if width < 1 {
			return ""
		}
		return strings.Repeat("─", width)
	}
	label = " " + label + " "
	side := (width - len([]rune(label))) / 2
	if side < 2 {
		side = 2
	}
	return strings.Repeat("─", side) + label + strings.Repeat("─", side)
}
