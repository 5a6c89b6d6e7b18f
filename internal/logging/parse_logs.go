// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"time"
)

// logEntry is the wire form of a single slog JSON line written by the
// wtime service.
type logEntry struct {
	Time     time.Time `json:"time"`
	Level    string    `json:"level"`
	Msg      string    `json:"msg"`
	Mod      string    `json:"mod"`
	Sensor   string    `json:"sensor"`
	Entity   string    `json:"entity"`
	State    string    `json:"state"`
	Now      time.Time `json:"now"`
	Due      time.Time `json:"due"`
	Delay    string    `json:"delay"`
	Entities int       `json:"entities"`
	Timezone string    `json:"tz"`
	Err      string    `json:"err"`
}

// Entry is a parsed log line.
type Entry struct {
	logEntry

	Delay    time.Duration
	Err      error
	LogEntry string // Original log line
}

func ParseLogLine(line string) (Entry, error) {
	var le Entry
	le.LogEntry = line
	if err := json.Unmarshal([]byte(line), &le.logEntry); err != nil {
		return le, err
	}
	if d := le.logEntry.Delay; d != "" {
		delay, err := time.ParseDuration(d)
		if err != nil {
			return le, err
		}
		le.Delay = delay
	}
	if e := le.logEntry.Err; e != "" {
		le.Err = errors.New(e)
	}
	return le, nil
}

// Published reports whether the entry records a publish attempt,
// successful or not.
func (le Entry) Published() bool {
	return le.Entity != "" && (le.Msg == "ok" || le.Msg == "failed")
}

func (le Entry) StatusRecord() *StatusRecord {
	return &StatusRecord{
		Sensor: le.Sensor,
		Entity: le.Entity,
		State:  le.State,
		Due:    le.Due,
	}
}

type Scanner struct {
	sc  *bufio.Scanner
	err error
}

func NewScanner(rd io.Reader) *Scanner {
	return &Scanner{sc: bufio.NewScanner(rd)}
}

// Entries returns an iterator over the scanner's log entries. The
// iterator stops on the first malformed line; the Scanner's Err method
// should be checked after the iterator has completed.
func (ls *Scanner) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			if !ls.sc.Scan() {
				ls.err = ls.sc.Err()
				return
			}
			le, err := ParseLogLine(ls.sc.Text())
			if err != nil {
				ls.err = err
				return
			}
			if !yield(le) {
				return
			}
		}
	}
}

func (ls *Scanner) Err() error {
	return ls.err
}
