// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dst

import "time"

// TimeLayoutMinute is the serialization format for transition instants:
// an ISO-8601 local timestamp with the full UTC offset, at minute
// precision.
const TimeLayoutMinute = "2006-01-02T15:04-07:00"

// NextState labels for State.NextState.
const (
	NextStateOn  = "on"
	NextStateOff = "off"
)

// State is the daylight saving status synthesized around a single
// instant. All transition fields are optional (nil when no transition
// was found within the search horizon). A State is recomputed wholesale
// on every tick and never partially updated.
type State struct {
	Now      time.Time
	Timezone string

	// IsDST reports whether daylight saving time is in effect at Now.
	IsDST bool

	// SeasonStart is the instant DST turned on for the current season
	// when IsDST is true, or for the previous completed season when the
	// most recent transition turned DST off.
	SeasonStart *time.Time
	// SeasonEnd is the instant DST will turn off for the current season
	// when IsDST is true, or last turned off otherwise.
	SeasonEnd *time.Time
	// NextStart and NextEnd bracket the next DST season.
	NextStart *time.Time
	NextEnd   *time.Time

	// NextChange is the next offset change of any kind.
	NextChange *time.Time
	// NextState is "on" if NextChange turns DST on, "off" if it turns
	// it off, and empty when NextChange is unknown. It is derived by
	// sampling the DST predicate one minute after the change.
	NextState string
}

// Synthesize recomputes the full DST state at now from two transition
// searches plus follow-on forward searches for the next season. The
// offset function and DST predicate must describe the same timezone
// rules. maxDays bounds each individual search (DefaultHorizonDays if
// zero or negative).
func Synthesize(now time.Time, offset Offset, isDST IsDST, maxDays int) State {
	s := State{Now: now, IsDST: isDST(now)}

	prev, prevOK := PrevTransition(now, offset, maxDays)
	next, nextOK := NextTransition(now, offset, maxDays)
	if nextOK {
		s.NextChange = &next
		if isDST(next.Add(time.Minute)) {
			s.NextState = NextStateOn
		} else {
			s.NextState = NextStateOff
		}
	}

	if s.IsDST {
		// The previous change turned DST on and the next turns it off.
		if prevOK {
			s.SeasonStart = &prev
		}
		if nextOK {
			s.SeasonEnd = &next
			if ns, ok := NextTransition(next.Add(time.Minute), offset, maxDays); ok {
				s.NextStart = &ns
				if ne, ok := NextTransition(ns.Add(time.Minute), offset, maxDays); ok {
					s.NextEnd = &ne
				}
			}
		}
		return s
	}

	// Standard time: the next change starts the coming season, the
	// previous change ended the last one.
	if nextOK && s.NextState == NextStateOn {
		s.NextStart = &next
		if ne, ok := NextTransition(next.Add(time.Minute), offset, maxDays); ok {
			s.NextEnd = &ne
		}
	}
	if prevOK && isDST(prev.Add(-time.Minute)) {
		s.SeasonEnd = &prev
		if ls, ok := PrevTransition(prev.Add(-time.Minute), offset, maxDays); ok {
			s.SeasonStart = &ls
		}
	}
	return s
}

// SynthesizeForLocation synthesizes the DST state for a time.Location,
// expressing now and all transition instants in that location.
func SynthesizeForLocation(now time.Time, loc *time.Location, maxDays int) State {
	s := Synthesize(now.In(loc), ZoneOffset(loc), ZoneIsDST(loc), maxDays)
	s.Timezone = loc.String()
	in := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		l := t.In(loc)
		return &l
	}
	s.SeasonStart = in(s.SeasonStart)
	s.SeasonEnd = in(s.SeasonEnd)
	s.NextStart = in(s.NextStart)
	s.NextEnd = in(s.NextEnd)
	s.NextChange = in(s.NextChange)
	return s
}

// Attributes serializes the state for publication. Timestamps use
// TimeLayoutMinute; absent values are explicit nulls, never empty
// strings.
func (s State) Attributes() map[string]any {
	attrs := map[string]any{
		"dst_in_effect": s.IsDST,
		"timezone":      s.Timezone,
		"season_start":  formatMinute(s.SeasonStart),
		"season_end":    formatMinute(s.SeasonEnd),
		"next_start":    formatMinute(s.NextStart),
		"next_end":      formatMinute(s.NextEnd),
		"next_change":   formatMinute(s.NextChange),
		"next_state":    nil,
	}
	if s.NextState != "" {
		attrs["next_state"] = s.NextState
	}
	return attrs
}

func formatMinute(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(TimeLayoutMinute)
}
