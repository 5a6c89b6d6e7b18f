// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/autohcloud/wtime/sensors"
)

type SensorListFlags struct {
	ConfigFileFlags
	All bool `subcmd:"all,false,list the full catalog rather than the enabled sensors"`
	TSV bool `subcmd:"tsv,false,print the sensors in tab separated values"`
}

type Sensors struct {
	out io.Writer
}

// List prints the sensors the configuration selects, with their state
// evaluated at the current time in the configured timezone.
func (s *Sensors) List(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*SensorListFlags)
	cfg, err := loadConfig(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defs := cfg.ActiveSensors()
	if fv.All {
		defs = sensors.Catalog(cfg.Scheme())
	}
	now := time.Now().In(cfg.Location.TZ.Location)
	tm := tableManager{}
	tw := tm.Sensors(defs, now)
	if fv.TSV {
		fmt.Fprintln(s.out, tw.RenderTSV())
		return nil
	}
	fmt.Fprintln(s.out, tw.Render())
	return nil
}
