// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cache provides a byte-budgeted key/value cache for memoizing
// expensive lookups per session. Admission is reject-only: a payload that
// does not fit in the remaining budget is dropped, never room-made-for.
// Entries go stale after a fixed number of uses or a fixed age, checked
// lazily on each Use, and the whole cache is wiped when the caller presents a
// different session token than on the previous Use.
//
// Storage is delegated to a table.Table, so the same engine runs over the
// in-memory table or the per-entry file table.
package cache
