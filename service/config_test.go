// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package service_test

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/autohcloud/wtime/sensors"
	"github.com/autohcloud/wtime/service"
)

const exampleConfig = `
time_zone: America/New_York
latitude: 40.7128
longitude: -74.0060
home_assistant:
  endpoint: http://homeassistant.local:8123
sensors:
  enable: [wtime_24hr_clock]
  disable: [wtime_weekday]
  seasons: astronomical
dst:
  recalc_interval: 10m
auto_purge:
  enabled: true
  interval: 30s
`

func TestParseConfig(t *testing.T) {
	cfg, err := service.ParseConfig([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.Location.TZ.String(), "America/New_York"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.Scheme(), sensors.Astronomical; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.DST.RecalcInterval, 10*time.Minute; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.DST.HorizonDays, 400; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.AutoPurge.Interval, 30*time.Second; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.AutoPurge.Entities, service.DefaultAutoPurgeEntities; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := service.ParseConfig([]byte("home_assistant:\n  endpoint: http://ha:8123\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Location.TZ == nil || cfg.Location.TZ.Location == nil {
		t.Fatal("expected a default timezone")
	}
	if got, want := cfg.DST.RecalcInterval, service.DefaultDSTRecalcInterval; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.AutoPurge.Interval, service.DefaultAutoPurgeInterval; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := cfg.Scheme(), sensors.Meteorological; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		config string
		msg    string
	}{
		{"auto_purge:\n  interval: 5s\n", "below the minimum"},
		{"sensors:\n  disable: [no_such_sensor]\n", "unknown sensor"},
		{"sensors:\n  seasons: lunar\n", "unrecognised season scheme"},
		{"time_zone: Neverland/Nowhere\n", "unknown time zone"},
	} {
		_, err := service.ParseConfig([]byte(tc.config))
		if err == nil || !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("config %q: got %v, want an error containing %q", tc.config, err, tc.msg)
		}
	}
}

func TestActiveSensors(t *testing.T) {
	cfg, err := service.ParseConfig([]byte(exampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	keys := map[string]bool{}
	for _, def := range cfg.ActiveSensors() {
		keys[def.Key] = true
	}
	if !keys["wtime_24hr_clock"] {
		t.Error("expected wtime_24hr_clock to be enabled")
	}
	if keys["wtime_weekday"] {
		t.Error("expected wtime_weekday to be disabled")
	}
	if keys["wtime_24hr_clock_with_seconds"] {
		t.Error("expected wtime_24hr_clock_with_seconds to stay disabled")
	}
	if !keys["wtime_season"] {
		t.Error("expected wtime_season to be enabled by default")
	}
}
