// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Check(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	p := Policy{MaxUses: 3, Live: time.Minute}

	tests := []struct {
		name     string
		useCount int
		age      time.Duration
		want     Verdict
	}{
		{name: "new entry", useCount: 1, age: 0, want: Fresh},
		{name: "below both limits", useCount: 2, age: 59 * time.Second, want: Fresh},
		{name: "use limit reached", useCount: 3, age: 0, want: UseLimit},
		{name: "use limit exceeded", useCount: 7, age: 0, want: UseLimit},
		{name: "age exactly live", useCount: 1, age: time.Minute, want: Expired},
		{name: "age past live", useCount: 1, age: time.Hour, want: Expired},
		{name: "use limit wins over age", useCount: 3, age: time.Hour, want: UseLimit},
		{name: "zero uses is still evaluated", useCount: 0, age: time.Hour, want: Expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Check(tt.useCount, base, base.Add(tt.age))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Fresh, p.IsFresh(tt.useCount, base, base.Add(tt.age)))
		})
	}
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "fresh", Fresh.String())
	assert.Equal(t, "use limit", UseLimit.String())
	assert.Equal(t, "expired", Expired.String())
	assert.Equal(t, "unknown", Verdict(42).String())
	assert.False(t, Fresh.Stale())
	assert.True(t, Expired.Stale())
}
