// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"cloudeng.io/logging/ctxlog"
	"github.com/autohcloud/wtime/cmd/wtime/internal/webapi"
	"github.com/autohcloud/wtime/cmd/wtime/internal/webassets"
	"github.com/autohcloud/wtime/hass"
	"github.com/autohcloud/wtime/internal/logging"
	"github.com/autohcloud/wtime/service"
	"github.com/pkg/browser"
)

type RunFlags struct {
	ConfigFileFlags
	WebUIFlags
	LogFile string `subcmd:"log-file,,log file, stdout when unset"`
}

type PublishFlags struct {
	ConfigFileFlags
}

type Runner struct{}

func (r *Runner) setupLogging(ctx context.Context, logfile string) (context.Context, *slog.Logger, func(), error) {
	var w io.Writer = os.Stdout
	cleanup := func() {}
	if len(logfile) > 0 {
		f, err := newLogfile(logfile)
		if err != nil {
			return ctx, nil, cleanup, err
		}
		w = f
		cleanup = func() { f.Close() }
	}
	ctx = ctxlog.NewJSONLogger(ctx, w, nil)
	return ctx, ctxlog.Logger(ctx), cleanup, nil
}

func (r *Runner) connect(ctx context.Context, fv *ConfigFileFlags, logger *slog.Logger) (service.Config, *hass.Client, error) {
	cfg, err := loadConfig(ctx, fv)
	if err != nil {
		return service.Config{}, nil, err
	}
	token, err := loadToken(cfg)
	if err != nil {
		return service.Config{}, nil, err
	}
	client, err := hass.NewClient(cfg.HomeAssistant.Endpoint, token, hass.WithLogger(logger))
	if err != nil {
		return service.Config{}, nil, err
	}
	return cfg, client, nil
}

func (r *Runner) serveStatusUI(ctx context.Context, configFile string, fv WebUIFlags, logger *slog.Logger, sr *logging.StatusRecorder, dstGen webapi.DSTStateGenerator) error {
	mux := http.NewServeMux()
	runner, url, err := fv.CreateWebServer(ctx, mux)
	if err != nil {
		return err
	}
	pages := fv.StatusPages()

	cc := webapi.NewStatusServer(logger, sr, dstGen)
	cc.AppendEndpoints(ctx, mux)
	webassets.AppendStatusPages(mux, configFile, pages)
	go func() {
		if fv.Browser && url != "" {
			_ = browser.OpenURL(url)
		}
		_ = runner()
	}()
	return nil
}

func (r *Runner) Run(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*RunFlags)
	ctx, logger, cleanup, err := r.setupLogging(ctx, fv.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, client, err := r.connect(ctx, &fv.ConfigFileFlags, logger)
	if err != nil {
		return err
	}

	sr := logging.NewStatusRecorder()
	svc, err := service.New(cfg, client,
		service.WithLogger(logger),
		service.WithStatusRecorder(sr))
	if err != nil {
		return err
	}

	logger.Info("starting wtime",
		"config", fv.ConfigFile,
		"endpoint", cfg.HomeAssistant.Endpoint,
		"tz", cfg.Location.TZ.String())

	if err := r.serveStatusUI(ctx, fv.ConfigFile, fv.WebUIFlags, logger, sr, svc.LatestDST); err != nil {
		return err
	}

	return svc.Run(ctx)
}

// Publish publishes every enabled sensor and the daylight saving state
// once and exits.
func (r *Runner) Publish(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*PublishFlags)
	ctx = ctxlog.NewJSONLogger(ctx, os.Stdout, nil)
	logger := ctxlog.Logger(ctx)
	cfg, client, err := r.connect(ctx, &fv.ConfigFileFlags, logger)
	if err != nil {
		return err
	}
	svc, err := service.New(cfg, client, service.WithLogger(logger))
	if err != nil {
		return err
	}
	return svc.PublishAll(ctx)
}
