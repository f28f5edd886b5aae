// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"errors"
	"time"
)

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("entry not found")
)

// Entry is a single stored payload plus the bookkeeping the cache needs to
// judge it. SizeBytes and InsertedAt never change after insertion.
type Entry[V any] struct {
	Key        string    `yaml:"key" json:"key"`
	Payload    V         `yaml:"payload" json:"payload"`
	SizeBytes  int64     `yaml:"size" json:"size"`
	InsertedAt time.Time `yaml:"inserted_at" json:"inserted_at"`
	UseCount   int       `yaml:"times" json:"times"`
}

// Table is the ordered key/value collection a cache persists its entries in.
// Keys are unique. Implementations need not be safe for concurrent use; the
// cache serializes access.
type Table[V any] interface {
	// Insert appends e. It fails with ErrDuplicateKey if e.Key is present.
	Insert(e Entry[V]) error
	// Find returns the entry stored under key and whether it exists.
	Find(key string) (Entry[V], bool, error)
	// Update replaces the stored entry with the same key. It fails with
	// ErrNotFound if there is none.
	Update(e Entry[V]) error
	// Remove deletes the entry under key and returns how many were removed.
	Remove(key string) (int, error)
	// RemoveAll empties the table.
	RemoveAll() error
	// All returns every entry. The slice is owned by the caller.
	All() ([]Entry[V], error)
}
