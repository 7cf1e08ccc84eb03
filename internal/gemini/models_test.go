// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"sort"
	"testing"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultModel},
		{"  ", DefaultModel},
		{"flash", "gemini-2.5-flash"},
		{"PRO", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
		{"gemini-exp-1206", "gemini-exp-1206"},
	}
	for _, tc := range tests {
		if got := ResolveModel(tc.in); got != tc.want {
			t.Errorf("ResolveModel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestModels_HaveRequiredFields(t *testing.T) {
	for alias, m := range Models {
		t.Run(alias, func(t *testing.T) {
			if m.ID == "" || m.Name == "" || m.Tier == "" {
				t.Errorf("incomplete registry entry: %+v", m)
			}
			if m.TierIcon() == "?" {
				t.Errorf("unknown tier %q", m.Tier)
			}
		})
	}
	if _, ok := GetModelInfo(DefaultModel); !ok {
		t.Errorf("default model %q missing from registry", DefaultModel)
	}
}

func TestGetModelInfo(t *testing.T) {
	if info, ok := GetModelInfo("gemini-2.5-pro"); !ok || info.Name != "Gemini 2.5 Pro" {
		t.Errorf("lookup by ID failed: %+v %v", info, ok)
	}
	if IsKnownModel("gpt-4o") {
		t.Error("gpt-4o should not be known")
	}
}

func TestModelInfo_ContextString(t *testing.T) {
	if got := (ModelInfo{MaxTokens: 1048576}).ContextString(); got != "1.0M tokens" {
		t.Errorf("ContextString() = %q", got)
	}
	if got := (ModelInfo{MaxTokens: 32768}).ContextString(); got != "32K tokens" {
		t.Errorf("ContextString() = %q", got)
	}
	if got := (ModelInfo{MaxTokens: 512}).ContextString(); got != "512 tokens" {
		t.Errorf("ContextString() = %q", got)
	}
}

func TestModelAliases_Sorted(t *testing.T) {
	aliases := ModelAliases()
	if len(aliases) != len(Models) {
		t.Fatalf("got %d aliases, want %d", len(aliases), len(Models))
	}
	if !sort.StringsAreSorted(aliases) {
		t.Errorf("aliases not sorted: %v", aliases)
	}
}
