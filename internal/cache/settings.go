// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// MB is the unit MaxStackMB is expressed in.
const MB = 1024 * 1024

var ErrInvalidSettings = errors.New("invalid cache settings")

// Locale selects the language of diagnostic messages. It has no effect on
// cache behavior.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh"
)

// ParseLocale maps a locale name (case-insensitive, region suffix ignored)
// to a supported Locale.
func ParseLocale(s string) (Locale, error) {
	l := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	switch Locale(l) {
	case English, Chinese:
		return Locale(l), nil
	case "":
		return English, nil
	}
	return "", fmt.Errorf("%w: unsupported locale %q", ErrInvalidSettings, s)
}

// Settings are fixed for the lifetime of a Cache.
type Settings struct {
	// Name identifies the store. Disk tables use it as a directory name.
	Name string
	// MaxStackMB is the memory budget in megabytes (1024*1024 bytes).
	MaxStackMB float64
	// MaxTimes is the use-count at which an entry goes stale.
	MaxTimes int
	// Live is the age at which an entry goes stale.
	Live time.Duration
	Locale Locale
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Name:       "default",
		MaxStackMB: 1,
		MaxTimes:   10,
		Live:       5 * time.Minute,
		Locale:     English,
	}
}

// MaxBytes is the budget in bytes.
func (s Settings) MaxBytes() int64 {
	return int64(s.MaxStackMB * MB)
}

// Validate checks that every limit is positive and finite and the locale is
// known.
func (s Settings) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch {
	case math.IsNaN(s.MaxStackMB) || math.IsInf(s.MaxStackMB, 0) || s.MaxStackMB <= 0:
		errs = append(errs, fmt.Errorf("max stack must be positive, got %v", s.MaxStackMB))
	case s.MaxStackMB*MB >= math.MaxInt64:
		errs = append(errs, fmt.Errorf("max stack is too large, got %v", s.MaxStackMB))
	}
	if s.MaxTimes <= 0 {
		errs = append(errs, fmt.Errorf("max times must be positive, got %d", s.MaxTimes))
	}
	if s.Live <= 0 {
		errs = append(errs, fmt.Errorf("live must be positive, got %s", s.Live))
	}
	if _, ok := catalogs[s.Locale]; !ok {
		errs = append(errs, fmt.Errorf("unsupported locale %q", s.Locale))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}
