// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dst_test

import (
	"testing"
	"time"

	"github.com/autohcloud/wtime/dst"
)

func loadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %v: %v", name, err)
	}
	return loc
}

// newYork transitions, as absolute instants.
var (
	nySpring2024 = time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	nyFall2024   = time.Date(2024, 11, 3, 6, 0, 0, 0, time.UTC)
	nySpring2025 = time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC)
	nyFall2025   = time.Date(2025, 11, 2, 6, 0, 0, 0, time.UTC)
	nySpring2026 = time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC)
)

func TestNextTransitionSpringForward(t *testing.T) {
	ny := loadLocation(t, "America/New_York")
	start := time.Date(2025, 3, 8, 12, 0, 0, 0, ny)
	got, ok := dst.NextTransition(start, dst.ZoneOffset(ny), 0)
	if !ok {
		t.Fatal("expected a transition")
	}
	if !got.Equal(nySpring2025) {
		t.Errorf("got %v, want %v", got, nySpring2025)
	}
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("transition not rounded to a minute: %v", got)
	}
	if !dst.ZoneIsDST(ny)(got.Add(time.Minute)) {
		t.Errorf("expected DST to be in effect one minute after %v", got)
	}
	if dst.ZoneIsDST(ny)(got.Add(-time.Minute)) {
		t.Errorf("expected standard time one minute before %v", got)
	}
}

func TestPrevTransitionFallBack(t *testing.T) {
	ny := loadLocation(t, "America/New_York")
	start := time.Date(2025, 11, 3, 12, 0, 0, 0, ny)
	got, ok := dst.PrevTransition(start, dst.ZoneOffset(ny), 0)
	if !ok {
		t.Fatal("expected a transition")
	}
	if !got.Equal(nyFall2025) {
		t.Errorf("got %v, want %v", got, nyFall2025)
	}
	if got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("transition not rounded to a minute: %v", got)
	}
}

func TestNoTransitions(t *testing.T) {
	for _, loc := range []*time.Location{
		time.UTC,
		time.FixedZone("XST", -5*60*60),
	} {
		start := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
		if _, ok := dst.NextTransition(start, dst.ZoneOffset(loc), 0); ok {
			t.Errorf("%v: unexpected forward transition", loc)
		}
		if _, ok := dst.PrevTransition(start, dst.ZoneOffset(loc), 0); ok {
			t.Errorf("%v: unexpected backward transition", loc)
		}
	}
}

func TestHorizonExhausted(t *testing.T) {
	ny := loadLocation(t, "America/New_York")
	// The next transition is over 60 days away.
	start := time.Date(2025, 11, 3, 12, 0, 0, 0, ny)
	if _, ok := dst.NextTransition(start, dst.ZoneOffset(ny), 60); ok {
		t.Error("unexpected transition within a 60 day horizon")
	}
	if got, ok := dst.NextTransition(start, dst.ZoneOffset(ny), 400); !ok || !got.Equal(nySpring2026) {
		t.Errorf("got %v, %v, want %v", got, ok, nySpring2026)
	}
}

func TestDirectionReversal(t *testing.T) {
	offsets := map[string]dst.Offset{}
	for _, name := range []string{
		"America/New_York",
		"Europe/Paris",
		"Australia/Sydney",
		"Australia/Lord_Howe",
	} {
		offsets[name] = dst.ZoneOffset(loadLocation(t, name))
	}
	starts := []time.Time{
		time.Date(2024, 1, 15, 3, 30, 11, 0, time.UTC),
		time.Date(2024, 6, 20, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 2, 1, 12, 0, 0, 123456789, time.UTC),
		time.Date(2025, 8, 8, 8, 8, 8, 0, time.UTC),
	}
	for name, offset := range offsets {
		for _, start := range starts {
			next, ok := dst.NextTransition(start, offset, 0)
			if !ok {
				t.Errorf("%v: no transition after %v", name, start)
				continue
			}
			// Searching backward from just after a found transition must
			// land on the same transition.
			prev, ok := dst.PrevTransition(next.Add(time.Minute), offset, 0)
			if !ok {
				t.Errorf("%v: no transition before %v", name, next.Add(time.Minute))
				continue
			}
			if !prev.Equal(next) {
				t.Errorf("%v: reversal mismatch: forward %v, backward %v", name, next, prev)
			}
			if next.Second() != 0 || next.Nanosecond() != 0 {
				t.Errorf("%v: transition not rounded to a minute: %v", name, next)
			}
		}
	}
}

func TestHalfHourTransition(t *testing.T) {
	// Lord Howe Island shifts by 30 minutes rather than an hour.
	lh := loadLocation(t, "Australia/Lord_Howe")
	offset := dst.ZoneOffset(lh)
	start := time.Date(2025, 9, 1, 12, 0, 0, 0, lh)
	got, ok := dst.NextTransition(start, offset, 0)
	if !ok {
		t.Fatal("expected a transition")
	}
	before, after := offset(got.Add(-time.Minute)), offset(got.Add(time.Minute))
	if d := after - before; d != 30*time.Minute {
		t.Errorf("offset change: got %v, want 30m", d)
	}
}

// stepOffset is a synthetic offset function with transitions at the
// supplied instants, each switching between base and alt.
type stepOffset struct {
	on, off   time.Time
	base, alt time.Duration
}

func (s stepOffset) offset(t time.Time) time.Duration {
	if t.Before(s.on) || !t.Before(s.off) {
		return s.base
	}
	return s.alt
}

func (s stepOffset) isDST(t time.Time) bool {
	return s.offset(t) == s.alt
}

func TestSyntheticOffsetFunction(t *testing.T) {
	step := stepOffset{
		on:   time.Date(2025, 3, 9, 7, 0, 0, 0, time.UTC),
		off:  time.Date(2025, 11, 2, 6, 0, 0, 0, time.UTC),
		base: -5 * time.Hour,
		alt:  -4 * time.Hour,
	}
	start := time.Date(2025, 1, 10, 17, 42, 31, 99, time.UTC)
	next, ok := dst.NextTransition(start, step.offset, 0)
	if !ok || !next.Equal(step.on) {
		t.Errorf("got %v, %v, want %v", next, ok, step.on)
	}
	prev, ok := dst.PrevTransition(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), step.offset, 0)
	if !ok || !prev.Equal(step.off) {
		t.Errorf("got %v, %v, want %v", prev, ok, step.off)
	}
	// A degenerate zero-magnitude change is invisible.
	flat := stepOffset{on: step.on, off: step.off, base: -5 * time.Hour, alt: -5 * time.Hour}
	if _, ok := dst.NextTransition(start, flat.offset, 0); ok {
		t.Error("zero-magnitude offset change should not be observable")
	}
}

func TestSubHourTransitionRounding(t *testing.T) {
	// A transition on a half-hour boundary must be located exactly even
	// though the bisection brackets are derived from an arbitrary start.
	step := stepOffset{
		on:   time.Date(2025, 10, 5, 15, 30, 0, 0, time.UTC),
		off:  time.Date(2026, 4, 4, 15, 0, 0, 0, time.UTC),
		base: 10*time.Hour + 30*time.Minute,
		alt:  11 * time.Hour,
	}
	start := time.Date(2025, 8, 2, 9, 13, 27, 0, time.UTC)
	got, ok := dst.NextTransition(start, step.offset, 0)
	if !ok || !got.Equal(step.on) {
		t.Errorf("got %v, %v, want %v", got, ok, step.on)
	}
}
