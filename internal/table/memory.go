// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"slices"
)

// Memory is an insertion-ordered in-process Table.
type Memory[V any] struct {
	entries []Entry[V]
	index   map[string]int
}

// NewMemory returns an empty Memory table.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{index: map[string]int{}}
}

func (m *Memory[V]) Insert(e Entry[V]) error {
	if _, ok := m.index[e.Key]; ok {
		return fmt.Errorf("insert %q: %w", e.Key, ErrDuplicateKey)
	}
	m.index[e.Key] = len(m.entries)
	m.entries = append(m.entries, e)
	return nil
}

func (m *Memory[V]) Find(key string) (Entry[V], bool, error) {
	i, ok := m.index[key]
	if !ok {
		return Entry[V]{}, false, nil
	}
	return m.entries[i], true, nil
}

func (m *Memory[V]) Update(e Entry[V]) error {
	i, ok := m.index[e.Key]
	if !ok {
		return fmt.Errorf("update %q: %w", e.Key, ErrNotFound)
	}
	m.entries[i] = e
	return nil
}

func (m *Memory[V]) Remove(key string) (int, error) {
	i, ok := m.index[key]
	if !ok {
		return 0, nil
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	delete(m.index, key)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
	return 1, nil
}

func (m *Memory[V]) RemoveAll() error {
	m.entries = nil
	clear(m.index)
	return nil
}

func (m *Memory[V]) All() ([]Entry[V], error) {
	return slices.Clone(m.entries), nil
}

// Len returns the number of stored entries.
func (m *Memory[V]) Len() int {
	return len(m.entries)
}
