// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"iter"
	"sync"
	"time"

	"cloudeng.io/algo/container/list"
)

// StatusRecorder tracks publish operations as they move from pending
// to completed. It is safe for concurrent use.
type StatusRecorder struct {
	mu      sync.Mutex
	done    []*StatusRecord
	waiting *list.Double[*StatusRecord]
}

func NewStatusRecorder() *StatusRecorder {
	return &StatusRecorder{
		done:    make([]*StatusRecord, 0, 1000),
		waiting: list.NewDouble[*StatusRecord](),
	}
}

// StatusRecord describes a single publish of a sensor state to the
// connected Home Assistant instance.
type StatusRecord struct {
	Sensor string
	Entity string
	State  string
	Due    time.Time // the tick the publish was scheduled for

	// The following fields are filled in by the status recorder.
	Pending   time.Time // set by NewPending
	Completed time.Time // set by PendingDone
	Error     error     // set using the argument to PendingDone

	listID list.DoubleID[*StatusRecord]
}

func (sr *StatusRecord) Status() string {
	if sr.Completed.IsZero() {
		return "pending"
	}
	if sr.Error != nil {
		return "failed"
	}
	return "completed"
}

func (sr *StatusRecord) ErrorMessage() string {
	if sr.Error == nil {
		return ""
	}
	return sr.Error.Error()
}

func (s *StatusRecorder) NewPending(sr *StatusRecord) *StatusRecord {
	if sr == nil {
		return sr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sr.listID = s.waiting.Append(sr)
	sr.Pending = time.Now().In(sr.Due.Location())
	return sr
}

func (s *StatusRecorder) PendingDone(sr *StatusRecord, err error) {
	if sr == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sr.Completed = time.Now().In(sr.Due.Location())
	sr.Error = err
	s.done = append(s.done, sr)
	s.waiting.RemoveItem(sr.listID)
}

// Completed iterates over completed records in completion order.
func (s *StatusRecorder) Completed() iter.Seq[*StatusRecord] {
	return func(yield func(*StatusRecord) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, sr := range s.done {
			if !yield(sr) {
				return
			}
		}
	}
}

// CompletedRecent iterates over completed records most recent first.
func (s *StatusRecorder) CompletedRecent() iter.Seq[*StatusRecord] {
	return func(yield func(*StatusRecord) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(s.done) - 1; i >= 0; i-- {
			if !yield(s.done[i]) {
				return
			}
		}
	}
}

func (s *StatusRecorder) Pending() iter.Seq[*StatusRecord] {
	return func(yield func(*StatusRecord) bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for sr := range s.waiting.Forward() {
			if !yield(sr) {
				return
			}
		}
	}
}

func (s *StatusRecorder) ResetCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = s.done[:0]
}
