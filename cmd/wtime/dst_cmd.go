// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/autohcloud/wtime/dst"
)

type DSTShowFlags struct {
	ConfigFileFlags
	At          string `subcmd:"at,,evaluate the state at this time in RFC3339 format rather than now"`
	HorizonDays int    `subcmd:"horizon-days,0,override the configured transition search horizon"`
}

type DSTTransitionsFlags struct {
	ConfigFileFlags
	Count       int  `subcmd:"count,4,how many future transitions to list"`
	HorizonDays int  `subcmd:"horizon-days,0,override the configured transition search horizon"`
	TSV         bool `subcmd:"tsv,false,print the transitions in tab separated values"`
}

type DST struct {
	out io.Writer
}

func (d *DST) at(fvAt string, loc *time.Location) (time.Time, error) {
	if fvAt == "" {
		return time.Now().In(loc), nil
	}
	t, err := time.Parse(time.RFC3339, fvAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", fvAt, err)
	}
	return t.In(loc), nil
}

// Show prints the daylight saving state for the configured timezone.
func (d *DST) Show(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*DSTShowFlags)
	cfg, err := loadConfig(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	horizon := cfg.DST.HorizonDays
	if fv.HorizonDays > 0 {
		horizon = fv.HorizonDays
	}
	now, err := d.at(fv.At, cfg.Location.TZ.Location)
	if err != nil {
		return err
	}
	state := dst.SynthesizeForLocation(now, cfg.Location.TZ.Location, horizon)
	tm := tableManager{}
	fmt.Fprintln(d.out, tm.DSTState(state).Render())
	return nil
}

// Transitions lists upcoming offset changes for the supplied timezones,
// or for the configured timezone when none are supplied.
func (d *DST) Transitions(ctx context.Context, flags any, args []string) error {
	fv := flags.(*DSTTransitionsFlags)
	cfg, err := loadConfig(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	horizon := cfg.DST.HorizonDays
	if fv.HorizonDays > 0 {
		horizon = fv.HorizonDays
	}
	zones := args
	if len(zones) == 0 {
		zones = []string{cfg.Location.TZ.String()}
	}
	tm := tableManager{}
	for _, tz := range zones {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return err
		}
		var transitions []time.Time
		offset := dst.ZoneOffset(loc)
		start := time.Now().In(loc)
		for range fv.Count {
			next, ok := dst.NextTransition(start, offset, horizon)
			if !ok {
				break
			}
			transitions = append(transitions, next)
			start = next.Add(time.Minute)
		}
		if len(transitions) == 0 {
			fmt.Fprintf(d.out, "%v: no transitions within %v days\n", tz, horizon)
			continue
		}
		tw := tm.Transitions(tz, transitions)
		if fv.TSV {
			fmt.Fprintln(d.out, tw.RenderTSV())
			continue
		}
		fmt.Fprintln(d.out, tw.Render())
	}
	return nil
}
