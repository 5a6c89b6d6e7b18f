// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package sensors

import (
	"time"

	"cloudeng.io/datetime"
	"cloudeng.io/geospatial/astronomy"
)

// Scheme selects how season boundaries are computed.
type Scheme int

const (
	// Meteorological seasons start on the first of December, March,
	// June and September.
	Meteorological Scheme = iota
	// Astronomical seasons start on the solstices and equinoxes.
	Astronomical
)

// Season is a named span of local time, inclusive of Start and
// exclusive of End. Start and End fall on local midnights.
type Season struct {
	Name  string
	Start time.Time
	End   time.Time
}

func dayOf(cd datetime.CalendarDate, loc *time.Location) time.Time {
	return time.Date(cd.Year(), time.Month(cd.Month()), cd.Day(), 0, 0, 0, 0, loc)
}

// yearSeasons returns the four seasons that begin in the given year in
// chronological order (spring through winter, the latter ending in the
// following year). Spans are contiguous by construction.
func yearSeasons(year int, scheme Scheme, loc *time.Location) []Season {
	var starts [5]time.Time
	switch scheme {
	case Astronomical:
		starts[0] = dayOf(astronomy.Spring{}.Evaluate(year).From(), loc)
		starts[1] = dayOf(astronomy.Summer{}.Evaluate(year).From(), loc)
		starts[2] = dayOf(astronomy.Autumn{LocalName: "Fall"}.Evaluate(year).From(), loc)
		starts[3] = dayOf(astronomy.Winter{}.Evaluate(year).From(), loc)
		starts[4] = dayOf(astronomy.Spring{}.Evaluate(year+1).From(), loc)
	default:
		starts[0] = time.Date(year, 3, 1, 0, 0, 0, 0, loc)
		starts[1] = time.Date(year, 6, 1, 0, 0, 0, 0, loc)
		starts[2] = time.Date(year, 9, 1, 0, 0, 0, 0, loc)
		starts[3] = time.Date(year, 12, 1, 0, 0, 0, 0, loc)
		starts[4] = time.Date(year+1, 3, 1, 0, 0, 0, 0, loc)
	}
	names := []string{"Spring", "Summer", "Fall", "Winter"}
	seasons := make([]Season, 4)
	for i, name := range names {
		seasons[i] = Season{Name: name, Start: starts[i], End: starts[i+1]}
	}
	return seasons
}

// CurrentSeason returns the season containing now and the one that
// follows it, per the supplied scheme, in now's location.
func CurrentSeason(now time.Time, scheme Scheme) (current, next Season) {
	spans := yearSeasons(now.Year()-1, scheme, now.Location())
	spans = append(spans, yearSeasons(now.Year(), scheme, now.Location())...)
	spans = append(spans, yearSeasons(now.Year()+1, scheme, now.Location())...)
	for i, s := range spans[:len(spans)-1] {
		if !now.Before(s.Start) && now.Before(s.End) {
			return s, spans[i+1]
		}
	}
	// Unreachable for contiguous spans.
	return spans[0], spans[1]
}
