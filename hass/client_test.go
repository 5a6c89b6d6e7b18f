// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package hass_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/autohcloud/wtime/hass"
	"github.com/google/go-cmp/cmp"
)

type request struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type fakeHass struct {
	sync.Mutex
	requests []request
	services string // JSON for GET /api/services
	status   int
}

func (f *fakeHass) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	f.requests = append(f.requests, request{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	if f.status != 0 {
		http.Error(w, "nope", f.status)
		return
	}
	if r.Method == http.MethodGet && r.URL.Path == "/api/services" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.services))
		return
	}
	w.WriteHeader(http.StatusOK)
}

func newTestClient(t *testing.T, f *fakeHass) (*hass.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	client, err := hass.NewClient(srv.URL, "secret")
	if err != nil {
		t.Fatal(err)
	}
	return client, srv
}

func TestSetState(t *testing.T) {
	ctx := context.Background()
	fake := &fakeHass{}
	client, _ := newTestClient(t, fake)

	err := client.SetState(ctx, "sensor.wtime_year", "2025", map[string]any{
		"friendly_name": "Wtime Year",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := request{
		Method: "POST",
		Path:   "/api/states/sensor.wtime_year",
		Auth:   "Bearer secret",
		Body: map[string]any{
			"state":      "2025",
			"attributes": map[string]any{"friendly_name": "Wtime Year"},
		},
	}
	if diff := cmp.Diff(want, fake.requests[0]); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%v", diff)
	}
}

func TestPurgeEntities(t *testing.T) {
	ctx := context.Background()
	fake := &fakeHass{}
	client, _ := newTestClient(t, fake)

	err := client.PurgeEntities(ctx, []string{"sensor.wtime_12hr_clock"}, false)
	if err != nil {
		t.Fatal(err)
	}
	got := fake.requests[0]
	if want := "/api/services/recorder/purge_entities"; got.Path != want {
		t.Errorf("path: got %v, want %v", got.Path, want)
	}
	want := map[string]any{
		"entity_ids": []any{"sensor.wtime_12hr_clock"},
		"repack":     false,
	}
	if diff := cmp.Diff(want, got.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%v", diff)
	}
}

func TestHasService(t *testing.T) {
	ctx := context.Background()
	fake := &fakeHass{
		services: `[{"domain":"recorder","services":{"purge":{},"purge_entities":{}}}]`,
	}
	client, _ := newTestClient(t, fake)

	ok, err := client.HasPurgeService(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected purge_entities to be available")
	}
	ok, err = client.HasService(ctx, "recorder", "no_such_service")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unexpected service")
	}
}

func TestAPIError(t *testing.T) {
	ctx := context.Background()
	fake := &fakeHass{status: http.StatusUnauthorized}
	client, _ := newTestClient(t, fake)

	err := client.SetState(ctx, "sensor.wtime_year", "2025", nil)
	var apiErr *hass.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %v, want %v", apiErr.StatusCode, http.StatusUnauthorized)
	}
}

func TestInvalidEndpoint(t *testing.T) {
	if _, err := hass.NewClient("ftp://nope", "tok"); err == nil {
		t.Error("expected an error for a non-http endpoint")
	}
}
