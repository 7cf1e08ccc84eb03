// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Models command: lists the known Gemini models.

package cli

import (
	"fmt"

	"github.com/jeranaias/gridterm/internal/gemini"
)

// RunModels prints the model registry, marking the active model.
func RunModels(env *Env, args Args) error {
	active := env.Config.Gemini.Model

	var rows []ModelData
	for _, alias := range gemini.ModelAliases() {
		info, _ := gemini.GetModelInfo(alias)
		rows = append(rows, ModelData{
			Alias:       alias,
			ID:          info.ID,
			Name:        info.Name,
			Tier:        info.Tier,
			Context:     info.ContextString(),
			Grounding:   info.Grounding,
			Description: info.Description,
			Active:      info.ID == active,
		})
	}

	if args.JSON {
		return NewJSONResponse("models", rows).Write(env.stdout())
	}

	w := env.stdout()
	fmt.Fprintln(w, TitleStyle.Render("Models"))
	for _, r := range rows {
		marker := "  "
		if r.Active {
			marker = BadgeStyle.Render("* ")
		}
		fmt.Fprintf(w, "%s%-12s %-24s %-10s %s\n", marker, r.Alias, r.ID, r.Context, DimStyle.Render(r.Description))
	}
	if !gemini.IsKnownModel(active) {
		fmt.Fprintf(w, "%s%s %s\n", BadgeStyle.Render("* "), active, DimStyle.Render("(not in registry)"))
	}
	return nil
}

// modelLabel renders a model id with its registry name when known.
func modelLabel(id string) string {
	if info, ok := gemini.GetModelInfo(id); ok {
		return fmt.Sprintf("%s (%s)", info.Name, info.ID)
	}
	return id
}
