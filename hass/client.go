// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package hass implements the subset of the Home Assistant REST API
// that wtime needs: publishing entity states and calling services.
package hass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Option func(o *options)

type options struct {
	logger     *slog.Logger
	httpClient *http.Client
	timeout    time.Duration
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. The default is 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Client is a Home Assistant REST API client authenticated with a
// long-lived access token. It is safe for concurrent use.
type Client struct {
	options
	endpoint *url.URL
	token    string
}

// NewClient creates a client for the Home Assistant instance at
// endpoint, eg. http://homeassistant.local:8123.
func NewClient(endpoint, token string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	c := &Client{endpoint: u, token: token}
	for _, opt := range opts {
		opt(&c.options)
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.timeout == 0 {
		c.timeout = 10 * time.Second
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("mod", "hass")
	return c, nil
}

// APIError is a non-2xx response from the Home Assistant API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("home assistant api error (status %d): %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}
	u := c.endpoint.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type stateUpdate struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// SetState publishes the state and attributes of an entity, creating
// the entity if it does not exist.
func (c *Client) SetState(ctx context.Context, entityID, state string, attributes map[string]any) error {
	err := c.do(ctx, http.MethodPost, "/api/states/"+entityID,
		stateUpdate{State: state, Attributes: attributes}, nil)
	if err != nil {
		return fmt.Errorf("set state %v: %w", entityID, err)
	}
	return nil
}

// CallService invokes a Home Assistant service, eg. domain "recorder",
// service "purge_entities".
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	err := c.do(ctx, http.MethodPost, "/api/services/"+domain+"/"+service, data, nil)
	if err != nil {
		return fmt.Errorf("call service %v.%v: %w", domain, service, err)
	}
	return nil
}

type serviceDomain struct {
	Domain   string                     `json:"domain"`
	Services map[string]json.RawMessage `json:"services"`
}

// HasService reports whether the given service is registered.
func (c *Client) HasService(ctx context.Context, domain, service string) (bool, error) {
	var domains []serviceDomain
	if err := c.do(ctx, http.MethodGet, "/api/services", nil, &domains); err != nil {
		return false, err
	}
	for _, d := range domains {
		if d.Domain != domain {
			continue
		}
		_, ok := d.Services[service]
		return ok, nil
	}
	return false, nil
}
