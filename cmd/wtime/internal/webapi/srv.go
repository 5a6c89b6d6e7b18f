// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package webapi implements the JSON endpoints behind the wtime status
// web UI.
package webapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/autohcloud/wtime/dst"
	"github.com/autohcloud/wtime/internal/logging"
)

// DSTStateGenerator returns the most recently computed daylight saving
// state, or false when none has been computed yet.
type DSTStateGenerator func() (dst.State, bool)

type Status struct {
	l      *slog.Logger
	sr     *logging.StatusRecorder
	dstGen DSTStateGenerator
}

func NewStatusServer(l *slog.Logger, sr *logging.StatusRecorder, dstGen DSTStateGenerator) *Status {
	return &Status{
		l:      l.With("component", "status"),
		sr:     sr,
		dstGen: dstGen,
	}
}

type CompletionResponse struct {
	Sensor       string `json:"sensor"`
	Entity       string `json:"entity"`
	State        string `json:"state"`
	Due          string `json:"due"`
	Completed    string `json:"completed"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

func (s *Status) completed(num int64, recent bool) []CompletionResponse {
	cr := []CompletionResponse{}
	var n int64
	it := s.sr.Completed()
	if recent {
		it = s.sr.CompletedRecent()
	}
	for sr := range it {
		cr = append(cr, CompletionResponse{
			Sensor:       sr.Sensor,
			Entity:       sr.Entity,
			State:        sr.State,
			Due:          sr.Due.Format(time.TimeOnly),
			Completed:    sr.Completed.Format(time.TimeOnly),
			Status:       sr.Status(),
			ErrorMessage: sr.ErrorMessage(),
		})
		n++
		if num > 0 && n >= num {
			break
		}
	}
	return cr
}

func (s *Status) httpError(ctx context.Context, w http.ResponseWriter, u *url.URL, msg, err string, statusCode int) {
	s.l.Log(ctx, slog.LevelInfo, msg, "request", u.String(), "code", statusCode, "error", err)
	http.Error(w, err, statusCode)
}

func (s *Status) ServeCompleted(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	pars := r.URL.Query()
	num, err := strconv.ParseInt(pars.Get("num"), 10, 64)
	if err != nil {
		num = 0
	}
	recent := pars.Get("order") == "recent"
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.completed(num, recent)); err != nil {
		s.httpError(ctx, w, r.URL, "completed", err.Error(), http.StatusInternalServerError)
	}
}

type PendingResponse struct {
	Sensor string `json:"sensor"`
	Entity string `json:"entity"`
	State  string `json:"state"`
	Due    string `json:"due"`
}

func (s *Status) pending(num int64) []PendingResponse {
	pr := []PendingResponse{}
	var n int64
	for sr := range s.sr.Pending() {
		pr = append(pr, PendingResponse{
			Sensor: sr.Sensor,
			Entity: sr.Entity,
			State:  sr.State,
			Due:    sr.Due.Format(time.TimeOnly),
		})
		n++
		if num > 0 && n >= num {
			break
		}
	}
	return pr
}

func (s *Status) ServePending(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	pars := r.URL.Query()
	num, err := strconv.ParseInt(pars.Get("num"), 10, 64)
	if err != nil {
		num = 0
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.pending(num)); err != nil {
		s.httpError(ctx, w, r.URL, "pending", err.Error(), http.StatusInternalServerError)
	}
}

func (s *Status) ServeDST(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	state, ok := s.dstGen()
	if !ok {
		s.httpError(ctx, w, r.URL, "dst", "no daylight saving state computed yet", http.StatusServiceUnavailable)
		return
	}
	attrs := state.Attributes()
	attrs["now"] = state.Now.Format(dst.TimeLayoutMinute)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(attrs); err != nil {
		s.httpError(ctx, w, r.URL, "dst", err.Error(), http.StatusInternalServerError)
	}
}

func (s *Status) AppendEndpoints(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/api/completed", func(w http.ResponseWriter, r *http.Request) {
		s.ServeCompleted(ctx, w, r)
	})
	mux.HandleFunc("/api/pending", func(w http.ResponseWriter, r *http.Request) {
		s.ServePending(ctx, w, r)
	})
	mux.HandleFunc("/api/dst", func(w http.ResponseWriter, r *http.Request) {
		s.ServeDST(ctx, w, r)
	})
}
