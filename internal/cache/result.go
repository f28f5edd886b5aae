// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"time"

	"github.com/staranto/sesscache/internal/freshness"
)

// ErrNotFound is returned for every lookup that does not produce a payload:
// the key is absent, the entry went stale, or the session changed. Lookup
// reports which.
var ErrNotFound = errors.New("not found")

// Admission is the outcome of Append.
type Admission int

const (
	// NotAdmitted accompanies a table error.
	NotAdmitted Admission = iota
	Admitted
	// OverBudget means the payload would push the cache past its budget.
	OverBudget
	// Duplicate means the key is already cached. The stored entry is kept.
	Duplicate
)

func (a Admission) String() string {
	switch a {
	case NotAdmitted:
		return "not admitted"
	case Admitted:
		return "admitted"
	case OverBudget:
		return "over budget"
	case Duplicate:
		return "duplicate"
	}
	return "unknown"
}

// Reason explains the result of Lookup.
type Reason int

const (
	Hit Reason = iota
	Missing
	SessionChanged
	UseLimit
	Expired
)

func (r Reason) String() string {
	switch r {
	case Hit:
		return "hit"
	case Missing:
		return "missing"
	case SessionChanged:
		return "session changed"
	case UseLimit:
		return "use limit"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Found reports whether r carried a payload.
func (r Reason) Found() bool {
	return r == Hit
}

func reasonFor(v freshness.Verdict) Reason {
	if v == freshness.UseLimit {
		return UseLimit
	}
	return Expired
}

// Stats are counters accumulated since the Cache was created.
type Stats struct {
	Admitted   uint64 `json:"admitted" yaml:"admitted"`
	Rejected   uint64 `json:"rejected" yaml:"rejected"`
	Duplicates uint64 `json:"duplicates" yaml:"duplicates"`
	Hits       uint64 `json:"hits" yaml:"hits"`
	Misses     uint64 `json:"misses" yaml:"misses"`
	Stale      uint64 `json:"stale" yaml:"stale"`
	Flushes    uint64 `json:"flushes" yaml:"flushes"`
}

// Summary describes the current occupancy of a Cache.
type Summary struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Used  int64  `json:"used" yaml:"used"`
	Free  int64  `json:"free" yaml:"free"`
	Max   int64  `json:"max" yaml:"max"`
}

// EntryInfo is the bookkeeping of one entry without its payload.
type EntryInfo struct {
	Key        string        `json:"key" yaml:"key"`
	SizeBytes  int64         `json:"size" yaml:"size"`
	UseCount   int           `json:"times" yaml:"times"`
	InsertedAt time.Time     `json:"inserted_at" yaml:"inserted_at"`
	Age        time.Duration `json:"age" yaml:"age"`
	// State is the freshness verdict the entry would get if used now.
	State string `json:"state" yaml:"state"`
}
