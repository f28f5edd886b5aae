// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package sizer estimates the memory footprint of arbitrary Go values.
package sizer
