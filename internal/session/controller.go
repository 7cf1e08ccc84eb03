// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/model"
)

// Querier answers prompts. *gemini.Client satisfies it.
type Querier interface {
	QueryGrid(ctx context.Context, prompt string) gemini.Result
}

// Controller drives Reduce synchronously for the line-mode front ends.
// Submit blocks until the query settles.
type Controller struct {
	mu      sync.Mutex
	state   State
	stamper Stamper
	querier Querier
}

// NewController starts a session with the welcome banner.
func NewController(welcome string, stamper Stamper, querier Querier) *Controller {
	return &Controller{
		state:   New(welcome, stamper.Next()),
		stamper: stamper,
		querier: querier,
	}
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit sends text and returns the LINK entry it produced. It returns false
// when the submission was ignored (blank input, or a query already in flight).
func (c *Controller) Submit(ctx context.Context, text string) (model.Entry, bool) {
	c.mu.Lock()
	next, _ := Reduce(c.state, InputChanged{Text: text})
	next, eff := Reduce(next, Submitted{Stamp: c.stamper.Next()})
	d, ok := eff.(Dispatch)
	if !ok {
		c.mu.Unlock()
		return model.Entry{}, false
	}
	c.state = next
	c.mu.Unlock()

	res := c.querier.QueryGrid(ctx, d.Prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state, _ = Reduce(c.state, Settled{Stamp: c.stamper.Next(), Result: res})
	last, _ := c.state.Transcript.Last()
	return last, true
}
