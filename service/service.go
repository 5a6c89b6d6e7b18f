// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package service runs the wtime publishing loops: one per enabled
// sensor, one for the daylight saving state and one for recorder
// history auto purging.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/sync/errgroup"
	"github.com/autohcloud/wtime/dst"
	"github.com/autohcloud/wtime/hass"
	"github.com/autohcloud/wtime/internal/logging"
	"github.com/autohcloud/wtime/sensors"
)

// DSTEntityID is the entity the daylight saving state is published as.
const DSTEntityID = "binary_sensor.wtime_dst_active"

// Publisher is the subset of the Home Assistant API the service needs.
// *hass.Client implements it.
type Publisher interface {
	SetState(ctx context.Context, entityID, state string, attributes map[string]any) error
	PurgeEntities(ctx context.Context, entityIDs []string, repack bool) error
	HasService(ctx context.Context, domain, service string) (bool, error)
}

// TimeSource is an interface that provides the current time in a
// specific location and is intended for testing purposes. It is
// consulted once per publish to compute the sensor states.
type TimeSource interface {
	NowIn(in *time.Location) time.Time
}

type SystemTimeSource struct{}

func (SystemTimeSource) NowIn(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

type Option func(o *options)

type options struct {
	timeSource TimeSource
	logger     *slog.Logger
	recorder   *logging.StatusRecorder
}

// WithTimeSource sets the time source used for sensor states and is
// primarily intended for testing purposes.
func WithTimeSource(ts TimeSource) Option {
	return func(o *options) {
		o.timeSource = ts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStatusRecorder records every publish operation for display by the
// status web UI.
func WithStatusRecorder(sr *logging.StatusRecorder) Option {
	return func(o *options) {
		o.recorder = sr
	}
}

type Service struct {
	options
	cfg  Config
	pub  Publisher
	defs []sensors.Definition

	mu       sync.Mutex
	dstState dst.State
	haveDST  bool
}

// New creates a service publishing the configured sensors via pub.
func New(cfg Config, pub Publisher, opts ...Option) (*Service, error) {
	if pub == nil {
		return nil, fmt.Errorf("no publisher specified")
	}
	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validateSensorKeys(); err != nil {
		return nil, err
	}
	svc := &Service{
		cfg:  cfg,
		pub:  pub,
		defs: cfg.ActiveSensors(),
	}
	for _, opt := range opts {
		opt(&svc.options)
	}
	if svc.timeSource == nil {
		svc.timeSource = SystemTimeSource{}
	}
	if svc.logger == nil {
		svc.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	svc.logger = svc.logger.With("mod", "service")
	return svc, nil
}

// Sensors returns the sensors the service will publish.
func (s *Service) Sensors() []sensors.Definition {
	return s.defs
}

// LatestDST returns the most recently computed daylight saving state.
func (s *Service) LatestDST() (dst.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dstState, s.haveDST
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (s *Service) sensorAttributes(def sensors.Definition, now time.Time) map[string]any {
	attrs := map[string]any{
		"friendly_name": def.DisplayName(),
		"icon":          def.Icon,
	}
	if def.DeviceClass != "" {
		attrs["device_class"] = def.DeviceClass
	}
	if len(def.Options) > 0 {
		attrs["options"] = def.Options
	}
	if def.Attributes != nil {
		for k, v := range def.Attributes(now) {
			attrs[k] = v
		}
	}
	return attrs
}

// PublishSensor publishes a single sensor's state computed at now. Due
// is the instant the publish was scheduled for and is only used for
// logging and status recording.
func (s *Service) PublishSensor(ctx context.Context, def sensors.Definition, now, due time.Time) error {
	state := def.State(now)
	var rec *logging.StatusRecord
	if s.recorder != nil {
		rec = s.recorder.NewPending(&logging.StatusRecord{
			Sensor: def.Key,
			Entity: def.EntityID(),
			State:  state,
			Due:    due,
		})
	}
	err := s.pub.SetState(ctx, def.EntityID(), state, s.sensorAttributes(def, now))
	if s.recorder != nil {
		s.recorder.PendingDone(rec, err)
	}
	logging.WritePublishLog(s.logger, err, def.Key, def.EntityID(), state, now, due, now.Sub(due))
	return err
}

// PublishDST recomputes the daylight saving state at now and publishes
// it as DSTEntityID.
func (s *Service) PublishDST(ctx context.Context, now time.Time) error {
	state := dst.SynthesizeForLocation(now, s.cfg.Location.TZ.Location, s.cfg.DST.HorizonDays)
	s.mu.Lock()
	s.dstState = state
	s.haveDST = true
	s.mu.Unlock()
	attrs := state.Attributes()
	attrs["friendly_name"] = "Wtime DST Active"
	attrs["icon"] = "mdi:sun-clock"
	err := s.pub.SetState(ctx, DSTEntityID, onOff(state.IsDST), attrs)
	logging.WriteDSTLog(s.logger, state.Timezone, onOff(state.IsDST), now)
	return err
}

// PublishAll publishes every enabled sensor and the daylight saving
// state once, returning the accumulated errors.
func (s *Service) PublishAll(ctx context.Context) error {
	var errs errors.M
	now := s.timeSource.NowIn(s.cfg.Location.TZ.Location)
	for _, def := range s.defs {
		errs.Append(s.PublishSensor(ctx, def, now, now))
	}
	errs.Append(s.PublishDST(ctx, now))
	return errs.Err()
}

// PurgeOnce runs a single auto purge cycle: if the recorder purge
// service is available a purge is issued for the configured entities,
// otherwise the cycle is skipped. An unavailable service or a failed
// availability check is not an error; the recorder may register with
// Home Assistant after this process starts, in which case a later
// cycle will pick it up.
func (s *Service) PurgeOnce(ctx context.Context, now time.Time) error {
	ok, err := s.pub.HasService(ctx, hass.RecorderDomain, hass.PurgeEntitiesService)
	if err != nil {
		s.logger.Warn("auto purge skipped, service lookup failed", "err", err.Error())
		return nil
	}
	if !ok {
		s.logger.Warn("auto purge skipped, recorder service unavailable",
			"service", hass.RecorderDomain+"."+hass.PurgeEntitiesService)
		return nil
	}
	err = s.pub.PurgeEntities(ctx, s.cfg.AutoPurge.Entities, s.cfg.AutoPurge.Repack)
	logging.WritePurgeLog(s.logger, err, len(s.cfg.AutoPurge.Entities), now)
	return err
}

func (s *Service) wait(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (s *Service) runSensor(ctx context.Context, def sensors.Definition) error {
	tz := s.cfg.Location.TZ.Location
	now := s.timeSource.NowIn(tz)
	// The first publish is immediate so that a restart never leaves an
	// entity stale for a full interval. Publish failures are logged and
	// retried on the next tick.
	_ = s.PublishSensor(ctx, def, now, now)
	if delay := def.AlignDelay(s.timeSource.NowIn(tz)); delay > 0 {
		if err := s.wait(ctx, delay); err != nil {
			return err
		}
		now = s.timeSource.NowIn(tz)
		_ = s.PublishSensor(ctx, def, now, now.Truncate(def.Interval))
	}
	ticker := time.NewTicker(def.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case due := <-ticker.C:
			now := s.timeSource.NowIn(tz)
			_ = s.PublishSensor(ctx, def, now, due.In(tz))
		}
	}
}

func (s *Service) runDST(ctx context.Context) error {
	tz := s.cfg.Location.TZ.Location
	_ = s.PublishDST(ctx, s.timeSource.NowIn(tz))
	ticker := time.NewTicker(s.cfg.DST.RecalcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.PublishDST(ctx, s.timeSource.NowIn(tz))
		}
	}
}

func (s *Service) runAutoPurge(ctx context.Context) error {
	if !s.cfg.AutoPurge.Enabled {
		return nil
	}
	tz := s.cfg.Location.TZ.Location
	_ = s.PurgeOnce(ctx, s.timeSource.NowIn(tz))
	ticker := time.NewTicker(s.cfg.AutoPurge.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = s.PurgeOnce(ctx, s.timeSource.NowIn(tz))
		}
	}
}

// Run publishes all sensors and then runs the periodic update loops
// until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("starting",
		"tz", s.cfg.Location.TZ.String(),
		"sensors", len(s.defs),
		"auto-purge", s.cfg.AutoPurge.Enabled)
	var g errgroup.T
	for _, def := range s.defs {
		g.Go(func() error {
			return s.runSensor(ctx, def)
		})
	}
	g.Go(func() error {
		return s.runDST(ctx)
	})
	g.Go(func() error {
		return s.runAutoPurge(ctx)
	})
	return g.Wait()
}
