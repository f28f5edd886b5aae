// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package freshness decides whether a cached entry may still be served.
package freshness

import "time"

// Verdict is the outcome of a freshness check.
type Verdict int

const (
	Fresh Verdict = iota
	// UseLimit means the entry has been used MaxUses times.
	UseLimit
	// Expired means the entry is at least Live old.
	Expired
)

func (v Verdict) String() string {
	switch v {
	case Fresh:
		return "fresh"
	case UseLimit:
		return "use limit"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Stale reports whether v rules the entry out.
func (v Verdict) Stale() bool {
	return v != Fresh
}

// Policy decides whether a stored entry may still be served. The use-count
// check runs before the age check and the first failing check wins.
type Policy struct {
	MaxUses int
	Live    time.Duration
}

// Check evaluates an entry that has been used useCount times and was inserted
// at insertedAt.
func (p Policy) Check(useCount int, insertedAt, now time.Time) Verdict {
	if useCount >= p.MaxUses {
		return UseLimit
	}
	if now.Sub(insertedAt) >= p.Live {
		return Expired
	}
	return Fresh
}

// IsFresh is shorthand for Check(...) == Fresh.
func (p Policy) IsFresh(useCount int, insertedAt, now time.Time) bool {
	return p.Check(useCount, insertedAt, now) == Fresh
}
