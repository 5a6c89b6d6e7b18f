// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/autohcloud/wtime/internal/logging"
)

func TestLogs(t *testing.T) {
	out := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil)).With("mod", "service")

	now := time.Now()
	due := now.Add(time.Minute)
	logging.WritePublishLog(logger, nil,
		"year", "sensor.wtime_year", "2025", now, due, time.Second*3)
	logging.WritePublishLog(logger, io.EOF,
		"season", "sensor.wtime_season", "Summer", now, due, time.Second)
	logging.WritePurgeLog(logger, nil, 4, now)
	logging.WriteDSTLog(logger, "America/New_York", "on", now)

	var logs []logging.Entry
	sc := logging.NewScanner(out)
	for le := range sc.Entries() {
		logs = append(logs, le)
	}
	if sc.Err() != nil {
		t.Fatalf("error scanning logs: %v", sc.Err())
	}
	if got, want := len(logs), 4; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}

	le := logs[0]
	if got, want := le.Msg, logging.LogOK; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Mod, "service"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Sensor, "year"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Entity, "sensor.wtime_year"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.State, "2025"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Delay, time.Second*3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Due, due.Round(0); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !le.Published() {
		t.Errorf("expected a publish entry")
	}
	if le.Err != nil {
		t.Errorf("unexpected error: %v", le.Err)
	}

	le = logs[1]
	if got, want := le.Msg, logging.LogFailed; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Err.Error(), "EOF"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !le.Published() {
		t.Errorf("expected a publish entry")
	}

	le = logs[2]
	if got, want := le.Msg, logging.LogPurge; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Entities, 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if le.Published() {
		t.Errorf("purge is not a publish entry")
	}

	le = logs[3]
	if got, want := le.Msg, logging.LogDST; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := le.Timezone, "America/New_York"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStatusRecorder(t *testing.T) {
	sr := logging.NewStatusRecorder()
	due := time.Now()

	a := sr.NewPending(&logging.StatusRecord{Sensor: "year", Entity: "sensor.wtime_year", Due: due})
	b := sr.NewPending(&logging.StatusRecord{Sensor: "season", Entity: "sensor.wtime_season", Due: due})

	var pending []*logging.StatusRecord
	for rec := range sr.Pending() {
		pending = append(pending, rec)
	}
	if got, want := len(pending), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := a.Status(), "pending"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	sr.PendingDone(b, nil)
	sr.PendingDone(a, io.EOF)

	pending = nil
	for rec := range sr.Pending() {
		pending = append(pending, rec)
	}
	if got, want := len(pending), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var completed []*logging.StatusRecord
	for rec := range sr.Completed() {
		completed = append(completed, rec)
	}
	if got, want := len(completed), 2; got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got, want := completed[0], b; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := completed[0].Status(), "completed"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := completed[1].Status(), "failed"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := completed[1].ErrorMessage(), "EOF"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	var recent []*logging.StatusRecord
	for rec := range sr.CompletedRecent() {
		recent = append(recent, rec)
	}
	if got, want := recent[0], a; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	sr.ResetCompleted()
	completed = nil
	for rec := range sr.Completed() {
		completed = append(completed, rec)
	}
	if got, want := len(completed), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
