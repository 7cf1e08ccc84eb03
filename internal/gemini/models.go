// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes a Gemini model for display and selection.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Tier categorizes the model's capability level
	Tier string `json:"tier"`

	// MaxTokens is the input context window size
	MaxTokens int `json:"max_tokens"`

	// Grounding is true if the model accepts the Google Search tool
	Grounding bool `json:"grounding"`

	Description string `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models maps friendly names to known Gemini models.
var Models = map[string]ModelInfo{
	"flash": {
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Tier:        "Fast",
		MaxTokens:   1048576,
		Grounding:   true,
		Description: "Fast general purpose with search grounding",
	},
	"flash-lite": {
		ID:          "gemini-2.5-flash-lite",
		Name:        "Gemini 2.5 Flash-Lite",
		Tier:        "Fast",
		MaxTokens:   1048576,
		Grounding:   true,
		Description: "Lowest latency and cost",
	},
	"pro": {
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Tier:        "Powerful",
		MaxTokens:   1048576,
		Grounding:   true,
		Description: "Most capable for complex reasoning",
	},
	"flash-2.0": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Tier:        "Balanced",
		MaxTokens:   1048576,
		Grounding:   true,
		Description: "Previous generation workhorse",
	},
}

// =============================================================================
// MODEL INFO METHODS
// =============================================================================

// ContextString returns a formatted context window string.
func (m ModelInfo) ContextString() string {
	if m.MaxTokens >= 1000000 {
		return fmt.Sprintf("%.1fM tokens", float64(m.MaxTokens)/1000000)
	}
	if m.MaxTokens >= 1000 {
		return fmt.Sprintf("%dK tokens", m.MaxTokens/1000)
	}
	return fmt.Sprintf("%d tokens", m.MaxTokens)
}

// TierIcon returns an icon character for the model tier.
func (m ModelInfo) TierIcon() string {
	switch m.Tier {
	case "Fast":
		return "z"
	case "Balanced":
		return "~"
	case "Powerful":
		return "&"
	default:
		return "?"
	}
}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// ResolveModel maps a friendly name to its model ID. Unknown names are
// passed through unchanged so new models work without a registry update.
// An empty name resolves to DefaultModel.
func ResolveModel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultModel
	}
	if info, ok := Models[strings.ToLower(name)]; ok {
		return info.ID
	}
	return name
}

// GetModelInfo looks up a model by friendly name or ID.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	if info, ok := Models[strings.ToLower(nameOrID)]; ok {
		return info, true
	}
	for _, info := range Models {
		if info.ID == nameOrID {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// IsKnownModel reports whether nameOrID is in the registry.
func IsKnownModel(nameOrID string) bool {
	_, ok := GetModelInfo(nameOrID)
	return ok
}

// ModelAliases returns the friendly names in sorted order.
func ModelAliases() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
