// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every command prints under --json.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is when the response was generated (RFC 3339, UTC)
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a JSON response for a failed command.
// data may still carry partial results.
func NewJSONErrorResponse(command string, data interface{}, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response to w with indentation.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// RESPONSE DATA
// =============================================================================

// SourceData is one grounding source.
type SourceData struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AskData is the --json payload of ask.
type AskData struct {
	Query   string       `json:"query"`
	Model   string       `json:"model"`
	Content string       `json:"content"`
	IsError bool         `json:"is_error"`
	Sources []SourceData `json:"sources"`
}

// VersionData is the --json payload of version.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// ModelData is one row of the models listing.
type ModelData struct {
	Alias       string `json:"alias"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tier        string `json:"tier"`
	Context     string `json:"context"`
	Grounding   bool   `json:"grounding"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}
