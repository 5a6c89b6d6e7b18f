// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/autohcloud/wtime/service"
)

type ConfigFileFlags struct {
	ConfigFile string `subcmd:"config,$HOME/.wtime.yaml,wtime configuration file"`
}

func loadConfig(ctx context.Context, fv *ConfigFileFlags) (service.Config, error) {
	cfg, err := service.ParseConfigFile(ctx, fv.ConfigFile)
	if err != nil {
		return service.Config{}, fmt.Errorf("failed to parse config file: %q: %w", fv.ConfigFile, err)
	}
	return cfg, nil
}

const tokenEnvVar = "WTIME_HA_TOKEN"

// loadToken reads the Home Assistant access token from the configured
// token file, falling back to the WTIME_HA_TOKEN environment variable.
func loadToken(cfg service.Config) (string, error) {
	if file := cfg.HomeAssistant.TokenFile; file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %q: %w", file, err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("token file is empty: %q", file)
		}
		return token, nil
	}
	if token := os.Getenv(tokenEnvVar); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("no token file configured and %v is unset", tokenEnvVar)
}

func newLogfile(logfile string) (*os.File, error) {
	return os.OpenFile(logfile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}
