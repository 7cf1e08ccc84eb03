// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/gridterm/internal/gemini"
)

// =============================================================================
// MESSAGES
// =============================================================================

// QuerySettledMsg carries the result of the in-flight query.
type QuerySettledMsg struct {
	Result gemini.Result
}

// ConfigReloadedMsg is sent after the config file changed on disk and the
// query client has been reconfigured.
type ConfigReloadedMsg struct {
	Model         string
	Grounding     bool
	Online        bool
	MarkdownStyle string
	WordWrap      int

	// Err is set when the new file could not be loaded; the previous
	// settings stay in effect.
	Err error
}
