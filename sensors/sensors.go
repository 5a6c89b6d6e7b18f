// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package sensors defines the catalog of date/time derived sensors
// published by wtime: clocks, categorical date parts (weekday, month,
// season, day of month), numeric date parts and pretty-printed dates.
// Minute clocks are aligned to minute boundaries to avoid drift and the
// 24 hour clock variants are disabled by default.
package sensors

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Static label sets, used as enum options.
var (
	Weekdays = []string{
		"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
	}
	Months = []string{
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	}
	Seasons = []string{"Winter", "Spring", "Summer", "Fall"}
)

// Alignment controls when a sensor's first periodic update fires;
// subsequent updates run at the definition's interval from that point.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignSecond
	AlignMinute
	AlignHour
)

// Definition describes a single published sensor: its entity identity,
// update cadence and the pure functions that derive its state and
// attributes from a local timestamp.
type Definition struct {
	Key              string
	Domain           string // "sensor" or "binary_sensor"
	Icon             string
	Interval         time.Duration
	Align            Alignment
	EnabledByDefault bool
	DeviceClass      string   // "enum" for categorical sensors
	Options          []string // enum options
	State            func(now time.Time) string
	Attributes       func(now time.Time) map[string]any // may be nil
}

// EntityID returns the Home Assistant entity id for the definition.
func (d Definition) EntityID() string {
	return d.Domain + "." + d.Key
}

var titler = cases.Title(language.English)

// DisplayName derives the friendly name from the key.
func (d Definition) DisplayName() string {
	return titler.String(strings.ReplaceAll(d.Key, "_", " "))
}

// AlignDelay returns the time to wait from now until the first aligned
// update.
func (d Definition) AlignDelay(now time.Time) time.Duration {
	switch d.Align {
	case AlignSecond:
		return now.Truncate(time.Second).Add(time.Second).Sub(now)
	case AlignMinute:
		return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
	case AlignHour:
		return now.Truncate(time.Hour).Add(time.Hour).Sub(now)
	}
	return 0
}

func clock(format string) func(time.Time) string {
	return func(now time.Time) string { return now.Format(format) }
}

func weekdayIndex(now time.Time) int {
	// time.Weekday is Sunday-based, the catalog's labels are
	// Monday-based.
	return (int(now.Weekday()) + 6) % 7
}

func isoWithSlashes(now time.Time) string {
	return now.Format("2006/01/02")
}

func prettyDateAttrs(now time.Time) map[string]any {
	return map[string]any{
		"pretty_long":      now.Format("Monday, January 2, 2006"),
		"pretty_short":     now.Format("Mon, Jan 2, 2006"),
		"y":                now.Year(),
		"m":                int(now.Month()),
		"d":                now.Day(),
		"iso_with_slashes": isoWithSlashes(now),
	}
}

func monthLength(now time.Time) int {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return int(first.AddDate(0, 1, 0).Sub(first).Hours() / 24)
}

func seasonAttrs(scheme Scheme) func(time.Time) map[string]any {
	return func(now time.Time) map[string]any {
		current, next := CurrentSeason(now, scheme)
		left := current.End.Sub(now)
		return map[string]any{
			"current_end":            current.End.Format(time.DateOnly),
			"next_season":            next.Name,
			"next_start":             next.Start.Format(time.DateOnly),
			"next_end":               next.End.Format(time.DateOnly),
			"seconds_until_change":   max(int(left.Seconds()), 0),
			"countdown_until_change": humanizeDuration(left),
		}
	}
}

// humanizeDuration renders a duration as a compact countdown, eg.
// "3d 4h 5m". Seconds appear only when no larger unit does.
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	days, rem := total/86400, total%86400
	hours, rem := rem/3600, rem%3600
	minutes, seconds := rem/60, rem%60
	parts := []string{}
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return strings.Join(parts, " ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Catalog returns the full set of sensor definitions. The season
// sensor's attributes follow the supplied boundary scheme.
func Catalog(scheme Scheme) []Definition {
	days := make([]string, 31)
	for i := range days {
		days[i] = strconv.Itoa(i + 1)
	}
	return []Definition{
		{
			Key:              "wtime_12hr_clock",
			Domain:           "sensor",
			Icon:             "mdi:clock-outline",
			Interval:         time.Minute,
			Align:            AlignMinute,
			EnabledByDefault: true,
			State:            clock("3:04 PM"),
		},
		{
			Key:      "wtime_24hr_clock",
			Domain:   "sensor",
			Icon:     "mdi:clock-outline",
			Interval: time.Minute,
			Align:    AlignMinute,
			State:    clock("15:04"),
		},
		{
			Key:              "wtime_12hr_clock_with_seconds",
			Domain:           "sensor",
			Icon:             "mdi:clock-time-four-outline",
			Interval:         time.Second,
			Align:            AlignSecond,
			EnabledByDefault: true,
			State:            clock("3:04:05 PM"),
		},
		{
			Key:      "wtime_24hr_clock_with_seconds",
			Domain:   "sensor",
			Icon:     "mdi:clock-time-four-outline",
			Interval: time.Second,
			Align:    AlignSecond,
			State:    clock("15:04:05"),
		},
		{
			Key:              "wtime_weekday",
			Domain:           "sensor",
			Icon:             "mdi:calendar-week",
			Interval:         time.Minute,
			EnabledByDefault: true,
			DeviceClass:      "enum",
			Options:          Weekdays,
			State: func(now time.Time) string {
				return Weekdays[weekdayIndex(now)]
			},
		},
		{
			Key:              "wtime_month_name",
			Domain:           "sensor",
			Icon:             "mdi:calendar-month",
			Interval:         time.Hour,
			EnabledByDefault: true,
			DeviceClass:      "enum",
			Options:          Months,
			State: func(now time.Time) string {
				return Months[now.Month()-1]
			},
		},
		{
			Key:              "wtime_season",
			Domain:           "sensor",
			Icon:             "mdi:white-balance-sunny",
			Interval:         time.Hour,
			EnabledByDefault: true,
			DeviceClass:      "enum",
			Options:          Seasons,
			State: func(now time.Time) string {
				current, _ := CurrentSeason(now, scheme)
				return current.Name
			},
			Attributes: seasonAttrs(scheme),
		},
		{
			Key:              "wtime_day_of_month",
			Domain:           "sensor",
			Icon:             "mdi:numeric",
			Interval:         time.Minute,
			EnabledByDefault: true,
			DeviceClass:      "enum",
			Options:          days,
			State: func(now time.Time) string {
				return strconv.Itoa(now.Day())
			},
			Attributes: func(now time.Time) map[string]any {
				return map[string]any{
					"day_int":     now.Day(),
					"zero_padded": fmt.Sprintf("%02d", now.Day()),
				}
			},
		},
		{
			Key:              "wtime_month_number",
			Domain:           "sensor",
			Icon:             "mdi:calendar-month",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State: func(now time.Time) string {
				return strconv.Itoa(int(now.Month()))
			},
			Attributes: func(now time.Time) map[string]any {
				first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
				return map[string]any{
					"name":               Months[now.Month()-1],
					"zero_padded":        fmt.Sprintf("%02d", int(now.Month())),
					"month_length":       monthLength(now),
					"first_weekday_name": Weekdays[weekdayIndex(first)],
				}
			},
		},
		{
			Key:              "wtime_year",
			Domain:           "sensor",
			Icon:             "mdi:numeric",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State: func(now time.Time) string {
				return strconv.Itoa(now.Year())
			},
		},
		{
			Key:              "wtime_date_iso",
			Domain:           "sensor",
			Icon:             "mdi:calendar",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State:            isoWithSlashes,
			Attributes: func(now time.Time) map[string]any {
				return map[string]any{
					"y":                now.Year(),
					"m":                int(now.Month()),
					"d":                now.Day(),
					"iso_with_slashes": isoWithSlashes(now),
				}
			},
		},
		{
			Key:              "wtime_date_pretty",
			Domain:           "sensor",
			Icon:             "mdi:calendar-star",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State:            clock("Monday, January 2, 2006"),
			Attributes:       prettyDateAttrs,
		},
		{
			Key:              "wtime_date_pretty_short",
			Domain:           "sensor",
			Icon:             "mdi:calendar-star",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State:            clock("Mon, Jan 2, 2006"),
			Attributes:       prettyDateAttrs,
		},
		{
			Key:              "wtime_iso_week",
			Domain:           "sensor",
			Icon:             "mdi:counter",
			Interval:         time.Hour,
			EnabledByDefault: true,
			State: func(now time.Time) string {
				_, week := now.ISOWeek()
				return strconv.Itoa(week)
			},
		},
		{
			Key:              "wtime_is_weekday",
			Domain:           "binary_sensor",
			Icon:             "mdi:briefcase-outline",
			Interval:         time.Hour,
			Align:            AlignHour,
			EnabledByDefault: true,
			State: func(now time.Time) string {
				return onOff(weekdayIndex(now) < 5)
			},
		},
		{
			Key:              "wtime_is_weekend",
			Domain:           "binary_sensor",
			Icon:             "mdi:beach",
			Interval:         time.Hour,
			Align:            AlignHour,
			EnabledByDefault: true,
			State: func(now time.Time) string {
				return onOff(weekdayIndex(now) >= 5)
			},
		},
	}
}

// Lookup returns the definition with the given key.
func Lookup(defs []Definition, key string) (Definition, bool) {
	for _, d := range defs {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}
