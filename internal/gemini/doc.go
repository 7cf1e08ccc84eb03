// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the Gemini generative-language client used to
// query The Grid.
//
// A Client turns one prompt into exactly one outbound GenerateContent call
// and folds every outcome into a Result. QueryGrid never returns an error:
// failures are reported as text carrying model.FailureSentinel so the caller
// can append them to the transcript like any other reply.
//
// # Usage
//
//	client := gemini.NewClient(gemini.Settings{
//	    APIKey:    key,
//	    Model:     "gemini-2.5-flash",
//	    Persona:   gemini.DefaultPersona,
//	    Grounding: true,
//	})
//	res := client.QueryGrid(ctx, "latest Go release")
//	fmt.Println(res.Text)
//	for _, s := range res.Sources {
//	    fmt.Println(s.Title, s.URI)
//	}
//
// The underlying SDK client is created lazily per API key, so a Client can be
// constructed before a key is available and fixed later via Reconfigure.
package gemini
