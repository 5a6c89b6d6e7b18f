// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type ConfigFlags struct {
	ConfigFileFlags
}

type Config struct {
	out io.Writer
}

func marshalYAML(indent string, v any) string {
	p, _ := yaml.Marshal(v)
	lines := strings.Split(string(p), "\n")
	indented := make([]string, len(lines))
	for i, line := range lines {
		indented[i] = indent + line
	}
	return strings.Join(indented, "\n")
}

// Display prints the parsed configuration with all defaults applied,
// together with the sensors it selects.
func (c *Config) Display(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*ConfigFlags)
	cfg, err := loadConfig(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Location: %v (lat %v, long %v)\n\n",
		cfg.Location.TZ.String(), cfg.Location.Latitude, cfg.Location.Longitude)
	fmt.Fprintf(c.out, "Home Assistant:\n%v\n", marshalYAML("  ", cfg.HomeAssistant))
	fmt.Fprintf(c.out, "DST:\n%v\n", marshalYAML("  ", cfg.DST))
	fmt.Fprintf(c.out, "Auto Purge:\n%v\n", marshalYAML("  ", cfg.AutoPurge))

	fmt.Fprintf(c.out, "Sensors:\n")
	for _, def := range cfg.ActiveSensors() {
		fmt.Fprintf(c.out, "  %v (%v, every %v)\n", def.EntityID(), def.DisplayName(), def.Interval)
	}
	return nil
}
