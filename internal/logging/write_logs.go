// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package logging provides the log schema written by the wtime service
// together with support for parsing those logs and for recording the
// status of publish operations.
package logging

import (
	"log/slog"
	"time"
)

const (
	LogOK     = "ok"
	LogFailed = "failed"
	LogPurge  = "purge"
	LogDST    = "dst"
)

// WritePublishLog logs the outcome of publishing a sensor state and
// must be called for every publish attempt, successful or not.
func WritePublishLog(l *slog.Logger, err error, sensor, entity, state string, now, due time.Time, delay time.Duration) {
	msg := LogOK
	if err != nil {
		msg = LogFailed
	}
	l.Info(msg,
		"sensor", sensor,
		"entity", entity,
		"state", state,
		"now", now,
		"due", due,
		"delay", delay.String(),
		"err", errString(err))
}

// WritePurgeLog logs the outcome of a recorder purge request.
func WritePurgeLog(l *slog.Logger, err error, entities int, now time.Time) {
	msg := LogPurge
	if err != nil {
		msg = LogFailed
	}
	l.Info(msg, "entities", entities, "now", now, "err", errString(err))
}

// WriteDSTLog logs a recomputation of the daylight saving state.
func WriteDSTLog(l *slog.Logger, tz, state string, now time.Time) {
	l.Info(LogDST, "tz", tz, "state", state, "now", now)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
