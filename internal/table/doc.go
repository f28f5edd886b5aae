// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package table defines the ordered key/value store a cache keeps its entries
// in, with in-memory and on-disk implementations.
package table
