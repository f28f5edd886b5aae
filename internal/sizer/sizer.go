// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package sizer

import (
	"reflect"
	"strconv"
	"unicode/utf16"
)

// Byte weights for scalar values.
const (
	StringUnit = 2
	Boolean    = 4
	Number     = 8
)

// identity distinguishes one traversable structure from another. Slices need
// the length as well as the data pointer since two slices can share a
// backing array.
type identity struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// Estimate returns an approximate byte footprint of v. It never panics and
// never fails; values it cannot measure contribute 0. A structure that is
// reached again while it is still being traversed (a cycle) contributes 0
// for that branch.
func Estimate(v any) int64 {
	return walk(reflect.ValueOf(v), map[identity]struct{}{})
}

// String returns the footprint of s, 2 bytes per UTF-16 code unit.
func String(s string) int64 {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return int64(n * StringUnit)
}

func walk(v reflect.Value, visiting map[identity]struct{}) int64 {
	if !v.IsValid() {
		return 0
	}

	switch v.Kind() {
	case reflect.String:
		return String(v.String())
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return Number
	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return walk(v.Elem(), visiting)
	case reflect.Pointer:
		if v.IsNil() {
			return 0
		}
		id := identity{ptr: v.Pointer(), typ: v.Type()}
		if !enter(visiting, id) {
			return 0
		}
		defer delete(visiting, id)
		return walk(v.Elem(), visiting)
	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return int64(v.Len())
		}
		id := identity{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if !enter(visiting, id) {
			return 0
		}
		defer delete(visiting, id)
		return indexed(v, visiting)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return int64(v.Len())
		}
		return indexed(v, visiting)
	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		id := identity{ptr: v.Pointer(), typ: v.Type()}
		if !enter(visiting, id) {
			return 0
		}
		defer delete(visiting, id)
		var total int64
		iter := v.MapRange()
		for iter.Next() {
			total += walk(iter.Key(), visiting)
			total += walk(iter.Value(), visiting)
		}
		return total
	case reflect.Struct:
		var total int64
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			total += String(f.Name)
			total += walk(v.Field(i), visiting)
		}
		return total
	default:
		// func, chan, unsafe.Pointer
		return 0
	}
}

// indexed sums positional keys and elements of a slice or array.
func indexed(v reflect.Value, visiting map[identity]struct{}) int64 {
	var total int64
	for i := 0; i < v.Len(); i++ {
		total += String(strconv.Itoa(i))
		total += walk(v.Index(i), visiting)
	}
	return total
}

func enter(visiting map[identity]struct{}, id identity) bool {
	if id.ptr == 0 {
		return true
	}
	if _, ok := visiting[id]; ok {
		return false
	}
	visiting[id] = struct{}{}
	return true
}
