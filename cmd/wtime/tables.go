// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/autohcloud/wtime/dst"
	"github.com/autohcloud/wtime/internal/logging"
	"github.com/autohcloud/wtime/sensors"
	"github.com/jedib0t/go-pretty/v6/table"
)

type tableManager struct{}

func (tm tableManager) Sensors(defs []sensors.Definition, now time.Time) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Entity", "Name", "Interval", "Default", "Class", "State"})
	for _, def := range defs {
		tw.AppendRow(table.Row{
			def.EntityID(),
			def.DisplayName(),
			def.Interval.String(),
			def.EnabledByDefault,
			def.DeviceClass,
			def.State(now),
		})
	}
	return tw
}

func (tm tableManager) CompletedAndPending(sr *logging.StatusRecorder) table.Writer {
	tw := table.NewWriter()
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	tw.AppendHeader(table.Row{"Sensor", "Entity", "State", "Due", "Completed", "Status", "Error"})
	for rec := range sr.Completed() {
		tw.AppendRow(table.Row{
			rec.Sensor,
			rec.Entity,
			rec.State,
			rec.Due.Format(time.TimeOnly),
			rec.Completed.Format(time.TimeOnly),
			rec.Status(),
			rec.ErrorMessage(),
		})
	}
	tw.AppendSeparator()
	for rec := range sr.Pending() {
		tw.AppendRow(table.Row{
			rec.Sensor,
			rec.Entity,
			rec.State,
			rec.Due.Format(time.TimeOnly),
			"",
			rec.Status(),
			"",
		})
	}
	return tw
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dst.TimeLayoutMinute)
}

func (tm tableManager) DSTState(state dst.State) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Field", "Value"})
	tw.AppendRow(table.Row{"now", state.Now.Format(dst.TimeLayoutMinute)})
	tw.AppendRow(table.Row{"timezone", state.Timezone})
	tw.AppendRow(table.Row{"dst_in_effect", state.IsDST})
	tw.AppendRow(table.Row{"season_start", formatOptional(state.SeasonStart)})
	tw.AppendRow(table.Row{"season_end", formatOptional(state.SeasonEnd)})
	tw.AppendRow(table.Row{"next_start", formatOptional(state.NextStart)})
	tw.AppendRow(table.Row{"next_end", formatOptional(state.NextEnd)})
	tw.AppendRow(table.Row{"next_change", formatOptional(state.NextChange)})
	tw.AppendRow(table.Row{"next_state", state.NextState})
	return tw
}

func (tm tableManager) Transitions(tz string, transitions []time.Time) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Timezone", "Transition", "UTC"})
	for _, t := range transitions {
		tw.AppendRow(table.Row{
			tz,
			t.Format(dst.TimeLayoutMinute),
			t.UTC().Format(time.RFC3339),
		})
	}
	return tw
}
