// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strings"

	"github.com/jeranaias/gridterm/internal/gemini"
	"github.com/jeranaias/gridterm/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingResponse
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseAwaitingResponse:
		return "AwaitingResponse"
	default:
		return "Unknown"
	}
}

// State is the full session state. It is a value; Reduce returns new states.
type State struct {
	Transcript   model.Transcript
	PendingInput string
	Busy         bool
}

// New returns the initial state holding the welcome banner.
func New(welcome string, stamp Stamp) State {
	return State{
		Transcript: model.Transcript{}.Append(model.NewSystemEntry(stamp.ID, stamp.At, welcome)),
	}
}

// Phase returns the current lifecycle phase.
func (s State) Phase() Phase {
	if s.Busy {
		return PhaseAwaitingResponse
	}
	return PhaseIdle
}

// CanSubmit reports whether a Submitted event would be accepted.
func (s State) CanSubmit() bool {
	return !s.Busy && strings.TrimSpace(s.PendingInput) != ""
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// InputChanged carries the new contents of the input field.
type InputChanged struct {
	Text string
}

// Submitted requests that PendingInput be sent. Stamp identifies the USER
// entry it creates.
type Submitted struct {
	Stamp Stamp
}

// Settled carries the outcome of the in-flight query.
type Settled struct {
	Stamp  Stamp
	Result gemini.Result
}

func (InputChanged) isEvent() {}
func (Submitted) isEvent()    {}
func (Settled) isEvent()      {}

// =============================================================================
// EFFECTS
// =============================================================================

// Effect is work Reduce asks its caller to perform.
type Effect interface {
	isEffect()
}

// Dispatch asks the caller to run exactly one query for Prompt and report
// back with Settled.
type Dispatch struct {
	Prompt string
}

func (Dispatch) isEffect() {}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Reduce applies ev to s. Events that are not valid in the current phase
// leave the state unchanged and return a nil effect.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case InputChanged:
		if s.Busy {
			return s, nil
		}
		s.PendingInput = ev.Text
		return s, nil

	case Submitted:
		if !s.CanSubmit() {
			return s, nil
		}
		prompt := strings.TrimSpace(s.PendingInput)
		s.Transcript = s.Transcript.Append(model.NewUserEntry(ev.Stamp.ID, ev.Stamp.At, prompt))
		s.PendingInput = ""
		s.Busy = true
		return s, Dispatch{Prompt: prompt}

	case Settled:
		if !s.Busy {
			return s, nil
		}
		s.Transcript = s.Transcript.Append(model.NewLinkEntry(ev.Stamp.ID, ev.Stamp.At, ev.Result.Text, ev.Result.Sources))
		s.Busy = false
		return s, nil
	}

	return s, nil
}
