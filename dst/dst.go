// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package dst locates the instants at which a timezone's UTC offset
// changes (ie. the start and end of daylight saving time) by probing an
// opaque offset function, without reference to any timezone database's
// precomputed transition tables. The offset function is assumed to be
// piecewise constant with isolated discontinuities; a bounded search
// window guards against pathological rule sets.
package dst

import "time"

// DefaultHorizonDays bounds the coarse day-by-day scan in either
// direction. A timezone with no transition within this window is
// treated as having a perpetual current regime.
const DefaultHorizonDays = 400

// Offset returns the total UTC offset in effect at the supplied
// instant, including any daylight saving component. Implementations
// must be pure since the same instant may be probed more than once.
type Offset func(t time.Time) time.Duration

// IsDST returns true if the daylight saving component of the offset at
// the supplied instant is non-zero.
type IsDST func(t time.Time) bool

// ZoneOffset returns the Offset function for the supplied location.
func ZoneOffset(loc *time.Location) Offset {
	return func(t time.Time) time.Duration {
		_, secs := t.In(loc).Zone()
		return time.Duration(secs) * time.Second
	}
}

// ZoneIsDST returns the IsDST predicate for the supplied location.
func ZoneIsDST(loc *time.Location) IsDST {
	return func(t time.Time) bool {
		return t.In(loc).IsDST()
	}
}

// NextTransition returns the earliest instant strictly after start at
// which offset differs from its value at start, rounded to the first
// minute at or after the change. It returns false if no transition
// occurs within maxDays (DefaultHorizonDays if maxDays is zero or
// negative); callers should treat that as a normal outcome rather than
// an error.
//
// The search steps forward a day at a time until the offset differs
// from the one captured at start and then halves the bracketing one-day
// window down to one second, so at most maxDays plus ~30 offset
// evaluations are needed. Offset changes of zero magnitude are
// invisible to the comparison and hence to the search.
func NextTransition(start time.Time, offset Offset, maxDays int) (time.Time, bool) {
	if maxDays <= 0 {
		maxDays = DefaultHorizonDays
	}
	base := offset(start)
	cursor, found := start, false
	for range maxDays {
		cursor = cursor.Add(24 * time.Hour)
		if offset(cursor) != base {
			found = true
			break
		}
	}
	if !found {
		return time.Time{}, false
	}
	// offset(low) == base, offset(high) != base.
	low := cursor.Add(-24 * time.Hour)
	_, high := refine(low, cursor, func(t time.Time) bool {
		return offset(t) == base
	})
	return minuteAtOrAfter(high), true
}

// PrevTransition returns the most recent instant at or before start at
// which the offset last changed, rounded to the first minute at or
// after the change, ie. the first minute of the current offset regime.
// It returns false if no transition occurs within maxDays
// (DefaultHorizonDays if maxDays is zero or negative).
func PrevTransition(start time.Time, offset Offset, maxDays int) (time.Time, bool) {
	if maxDays <= 0 {
		maxDays = DefaultHorizonDays
	}
	base := offset(start)
	cursor, found := start, false
	for range maxDays {
		cursor = cursor.Add(-24 * time.Hour)
		if offset(cursor) != base {
			found = true
			break
		}
	}
	if !found {
		return time.Time{}, false
	}
	// The bracket is inverted relative to the forward search: the lower
	// bound holds the old offset and the upper bound the current one.
	high := cursor.Add(24 * time.Hour)
	_, high = refine(cursor, high, func(t time.Time) bool {
		return offset(t) != base
	})
	return minuteAtOrAfter(high), true
}

// refine halves [low, high) down to a one second wide bracket,
// preserving the invariant that lowSide holds at low and not at high.
// The narrowing runs in hour, minute and second tiers.
func refine(low, high time.Time, lowSide func(time.Time) bool) (time.Time, time.Time) {
	for _, width := range []time.Duration{time.Hour, time.Minute, time.Second} {
		for high.Sub(low) > width {
			mid := low.Add(high.Sub(low) / 2)
			if lowSide(mid) {
				low = mid
			} else {
				high = mid
			}
		}
	}
	return low, high
}

// minuteAtOrAfter truncates t to whole seconds and then rounds it up to
// the next minute boundary unless it already falls exactly on one.
func minuteAtOrAfter(t time.Time) time.Time {
	t = t.Truncate(time.Second)
	if s := t.Second(); s != 0 {
		t = t.Add(time.Duration(60-s) * time.Second)
	}
	return t
}
