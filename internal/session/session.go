// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package session detects changes of an opaque identity token.
package session

import (
	"golang.org/x/crypto/blake2b"
)

// Guard tracks the last identity token seen by one cache and reports when it
// changes. Tokens are opaque; only a digest of the last one is kept. The zero
// value is ready to use and has no token recorded.
type Guard struct {
	last [blake2b.Size256]byte
	seen bool
}

// Observe records token and reports whether it differs from the previous
// one. The first call on a fresh Guard always reports a change.
func (g *Guard) Observe(token string) bool {
	sum := blake2b.Sum256([]byte(token))
	changed := !g.seen || sum != g.last
	g.last = sum
	g.seen = true
	return changed
}

// Reset forgets the recorded token so the next Observe reports a change.
func (g *Guard) Reset() {
	g.last = [blake2b.Size256]byte{}
	g.seen = false
}

// Seen reports whether any token has been observed since creation or Reset.
func (g *Guard) Seen() bool {
	return g.seen
}
