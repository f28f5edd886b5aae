// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	clone "github.com/huandu/go-clone/generic"

	"github.com/staranto/sesscache/internal/freshness"
	"github.com/staranto/sesscache/internal/session"
	"github.com/staranto/sesscache/internal/sizer"
	"github.com/staranto/sesscache/internal/table"
)

type options struct {
	now      func() time.Time
	estimate func(any) int64
}

// Option customizes New.
type Option func(*options)

// WithClock replaces time.Now as the source of insertion and lookup times.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithEstimator replaces sizer.Estimate as the footprint function.
func WithEstimator(estimate func(any) int64) Option {
	return func(o *options) { o.estimate = estimate }
}

// Cache is a byte-budgeted key/value cache whose entries go stale by age or
// by use-count, and which is wiped whenever the caller's session token
// changes. All methods are safe for concurrent use.
type Cache[V any] struct {
	mu sync.Mutex

	settings Settings
	maxBytes int64
	policy   freshness.Policy
	guard    session.Guard
	table    table.Table[V]
	now      func() time.Time
	estimate func(any) int64
	msgs     catalog
	log      *log.Entry

	// total and count mirror the table.
	total int64
	count int
	stats Stats
}

// New returns a Cache that stores its entries in tbl. Entries already in tbl
// are accounted against the budget. A table that already exceeds the budget
// is kept as is; Append rejects everything until enough is removed.
func New[V any](settings Settings, tbl table.Table[V], opts ...Option) (*Cache[V], error) {
	if settings.Locale == "" {
		settings.Locale = English
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInvalidSettings)
	}

	o := options{now: time.Now, estimate: sizer.Estimate}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		settings: settings,
		maxBytes: settings.MaxBytes(),
		policy:   freshness.Policy{MaxUses: settings.MaxTimes, Live: settings.Live},
		table:    tbl,
		now:      o.now,
		estimate: o.estimate,
		msgs:     catalogs[settings.Locale],
		log:      log.WithField("store", settings.Name),
	}

	existing, err := tbl.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	for _, e := range existing {
		c.total += e.SizeBytes
	}
	c.count = len(existing)
	if c.total > c.maxBytes {
		c.log.Warnf("stored entries use %d bytes, budget is %d", c.total, c.maxBytes)
	}

	return c, nil
}

// Settings returns the settings the cache was built with.
func (c *Cache[V]) Settings() Settings {
	return c.settings
}

// Append stores a copy of payload under key if it fits in the remaining
// budget and key is not already cached. A rejection is reported through the
// returned Admission, not as an error; the error is reserved for table
// failures.
func (c *Cache[V]) Append(key string, payload V) (Admission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists, err := c.table.Find(key)
	if err != nil {
		return NotAdmitted, fmt.Errorf("failed to find %q: %w", key, err)
	}
	if exists {
		c.stats.Duplicates++
		c.log.Infof(c.msgs.duplicate, key)
		return Duplicate, nil
	}

	e := table.Entry[V]{
		Key:        key,
		Payload:    clone.Slowly(payload),
		InsertedAt: c.now(),
		UseCount:   1,
	}
	e.SizeBytes = c.estimate(key) + c.estimate(e.Payload)

	if c.total+e.SizeBytes > c.maxBytes {
		c.stats.Rejected++
		c.log.Infof(c.msgs.overBudget, key, bytes(e.SizeBytes), bytes(c.maxBytes-c.total))
		return OverBudget, nil
	}

	if err := c.table.Insert(e); err != nil {
		return NotAdmitted, fmt.Errorf("failed to insert %q: %w", key, err)
	}
	c.total += e.SizeBytes
	c.count++
	c.stats.Admitted++
	c.log.Debugf(c.msgs.cached, key, bytes(e.SizeBytes))

	return Admitted, nil
}

// Use returns a copy of the payload cached under key on behalf of the
// session identified by token. Any result other than a fresh hit is reported
// as ErrNotFound.
func (c *Cache[V]) Use(token, key string) (V, error) {
	v, reason, err := c.Lookup(token, key)
	if err != nil {
		return v, err
	}
	if !reason.Found() {
		return v, ErrNotFound
	}
	return v, nil
}

// Lookup is Use with the reason spelled out. A token different from the one
// seen on the previous call wipes the cache and yields SessionChanged. A
// stale entry is removed and yields UseLimit or Expired. A hit bumps the
// entry's use-count by one.
func (c *Cache[V]) Lookup(token, key string) (V, Reason, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	if c.guard.Observe(token) {
		c.stats.Flushes++
		c.stats.Misses++
		c.log.Info(c.msgs.sessionChanged)
		if err := c.clearLocked(); err != nil {
			return zero, SessionChanged, err
		}
		return zero, SessionChanged, nil
	}

	e, ok, err := c.table.Find(key)
	if err != nil {
		return zero, Missing, fmt.Errorf("failed to find %q: %w", key, err)
	}
	if !ok {
		c.stats.Misses++
		c.log.Debugf(c.msgs.missing, key)
		return zero, Missing, nil
	}

	now := c.now()
	if v := c.policy.Check(e.UseCount, e.InsertedAt, now); v.Stale() {
		if v == freshness.UseLimit {
			c.log.Debugf(c.msgs.useLimit, e.UseCount, c.settings.MaxTimes)
		} else {
			c.log.Debugf(c.msgs.expired, now.Sub(e.InsertedAt).Seconds(), c.settings.Live.Seconds())
		}
		c.stats.Stale++
		c.stats.Misses++
		if err := c.removeLocked(e); err != nil {
			return zero, reasonFor(v), err
		}
		return zero, reasonFor(v), nil
	}

	e.UseCount++
	if err := c.table.Update(e); err != nil {
		return zero, Missing, fmt.Errorf("failed to update %q: %w", key, err)
	}
	c.stats.Hits++
	c.log.Debugf(c.msgs.use, e.UseCount, key)

	return clone.Slowly(e.Payload), Hit, nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (c *Cache[V]) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok, err := c.table.Find(key)
	if err != nil {
		return fmt.Errorf("failed to find %q: %w", key, err)
	}
	if !ok {
		return nil
	}
	return c.removeLocked(e)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clearLocked()
}

// Logout forgets the current session token without touching entries. The
// next Use reports a session change.
func (c *Cache[V]) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guard.Reset()
}

// Count returns the number of cached entries.
func (c *Cache[V]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// TotalBytes returns the summed footprint of all cached entries.
func (c *Cache[V]) TotalBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// FreeBytes returns the budget not yet used. It is never negative.
func (c *Cache[V]) FreeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return max(c.maxBytes-c.total, 0)
}

// UsedTimes returns the use-count of key, or ErrNotFound.
func (c *Cache[V]) UsedTimes(key string) (int, error) {
	e, err := c.find(key)
	if err != nil {
		return 0, err
	}
	return e.UseCount, nil
}

// Age returns how long ago key was inserted, or ErrNotFound.
func (c *Cache[V]) Age(key string) (time.Duration, error) {
	e, err := c.find(key)
	if err != nil {
		return 0, err
	}
	return c.now().Sub(e.InsertedAt), nil
}

// Entries describes every cached entry in table order. Listing does not
// remove stale entries.
func (c *Cache[V]) Entries() ([]EntryInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.table.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	now := c.now()
	infos := make([]EntryInfo, 0, len(all))
	for _, e := range all {
		infos = append(infos, EntryInfo{
			Key:        e.Key,
			SizeBytes:  e.SizeBytes,
			UseCount:   e.UseCount,
			InsertedAt: e.InsertedAt,
			Age:        now.Sub(e.InsertedAt),
			State:      c.policy.Check(e.UseCount, e.InsertedAt, now).String(),
		})
	}
	return infos, nil
}

// Stats returns a snapshot of the counters.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Summary returns the current occupancy.
func (c *Cache[V]) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

// LogSummary writes the occupancy to the log at info level.
func (c *Cache[V]) LogSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logSummaryLocked()
}

func (c *Cache[V]) find(key string) (table.Entry[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok, err := c.table.Find(key)
	if err != nil {
		return e, fmt.Errorf("failed to find %q: %w", key, err)
	}
	if !ok {
		c.log.Debugf(c.msgs.missing, key)
		return e, ErrNotFound
	}
	return e, nil
}

func (c *Cache[V]) removeLocked(e table.Entry[V]) error {
	n, err := c.table.Remove(e.Key)
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", e.Key, err)
	}
	if n > 0 {
		c.total -= e.SizeBytes
		c.count -= n
		c.log.Debugf(c.msgs.removed, e.Key)
	}
	return nil
}

func (c *Cache[V]) clearLocked() error {
	if err := c.table.RemoveAll(); err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}
	c.total = 0
	c.count = 0
	c.log.Info(c.msgs.cleared)
	c.logSummaryLocked()
	return nil
}

func (c *Cache[V]) summaryLocked() Summary {
	return Summary{
		Name:  c.settings.Name,
		Count: c.count,
		Used:  c.total,
		Free:  max(c.maxBytes-c.total, 0),
		Max:   c.maxBytes,
	}
}

func (c *Cache[V]) logSummaryLocked() {
	s := c.summaryLocked()
	c.log.WithFields(log.Fields{
		c.msgs.fStore: s.Name,
		c.msgs.fCount: s.Count,
		c.msgs.fUsed:  bytes(s.Used),
		c.msgs.fFree:  bytes(s.Free),
	}).Info(c.msgs.summary)
}

func bytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
