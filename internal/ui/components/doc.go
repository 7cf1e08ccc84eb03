// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual pieces of the gridterm console.
//
//   - Project / TranscriptView: entries to rendered transcript
//   - Markdown: swappable markdown renderer (glamour or plain)
//   - Header: HUD bar
//   - StatusBar: footer with model, grounding and submit state
package components
