// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/google/uuid"
)

// Stamp is the identity and creation time given to a new entry.
type Stamp struct {
	ID string
	At time.Time
}

// Stamper hands out stamps for new entries.
type Stamper interface {
	Next() Stamp
}

// ClockStamper issues random UUIDs and wall-clock times.
type ClockStamper struct {
	Now func() time.Time
}

// NewClockStamper returns a Stamper backed by time.Now.
func NewClockStamper() ClockStamper {
	return ClockStamper{Now: time.Now}
}

// Next implements Stamper.
func (c ClockStamper) Next() Stamp {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return Stamp{ID: uuid.NewString(), At: now()}
}
