// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/staranto/sesscache/internal/cache"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

// StoreNameValidator rejects names that cannot be used as a directory name.
func StoreNameValidator(value any) error {
	s := value.(string)
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("invalid store name %q", s)
	}
	return nil
}

func PositiveValidator(value any) error {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return nil
		}
	case int64:
		if v > 0 {
			return nil
		}
	case float64:
		if v > 0 && !math.IsInf(v, 1) {
			return nil
		}
	default:
		return fmt.Errorf("not a number: %v", value)
	}
	return fmt.Errorf("must be positive, got %v", value)
}

func LocaleValidator(value any) error {
	_, err := cache.ParseLocale(value.(string))
	return err
}

func OutputValidator(value any) error {
	return oneOf(value, "text", "json", "yaml")
}

func StoreValidator(value any) error {
	return oneOf(value, "disk", "memory")
}

func oneOf(value any, valid ...string) error {
	if s, ok := value.(string); ok && slices.Contains(valid, s) {
		return nil
	}
	return fmt.Errorf("must be one of %v", valid)
}
