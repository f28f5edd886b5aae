// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// sesscache is the main package for the sesscache command line tool, a
// size-bounded key/value cache whose entries go stale by age or use-count
// and are flushed whenever the caller's session token changes. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
