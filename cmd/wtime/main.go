// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
)

const cmdSpec = `name: wtime
summary: wtime publishes date/time derived sensors to a Home Assistant instance
commands:
  - name: run
    summary: run the publishing service
  - name: sensors
    summary: inspect and publish the sensor catalog
    commands:
      - name: list
        summary: list the configured sensors and their current states
      - name: publish
        summary: publish every configured sensor once and exit
  - name: dst
    summary: inspect daylight saving transitions
    commands:
      - name: show
        summary: show the daylight saving state for the configured timezone
      - name: transitions
        summary: list upcoming daylight saving transitions
        arguments:
          - <timezone>... - timezones in time.Location format, the configured one when omitted
  - name: config
    summary: query/inspect the configuration file
    commands:
      - name: display
  - name: logs
    summary: query/inspect the log files
    commands:
      - name: status
        arguments:
          - <log-file> - the log file to read, stdin when omitted
`

func cli() *subcmd.CommandSetYAML {
	cmd := subcmd.MustFromYAML(cmdSpec)

	runner := &Runner{}
	cmd.Set("run").MustRunner(runner.Run, &RunFlags{})

	sensors := &Sensors{out: os.Stdout}
	cmd.Set("sensors", "list").MustRunner(sensors.List, &SensorListFlags{})
	cmd.Set("sensors", "publish").MustRunner(runner.Publish, &PublishFlags{})

	dst := &DST{out: os.Stdout}
	cmd.Set("dst", "show").MustRunner(dst.Show, &DSTShowFlags{})
	cmd.Set("dst", "transitions").MustRunner(dst.Transitions, &DSTTransitionsFlags{})

	config := &Config{out: os.Stdout}
	cmd.Set("config", "display").MustRunner(config.Display, &ConfigFlags{})

	log := &Log{out: os.Stdout}
	cmd.Set("logs", "status").MustRunner(log.Status, &LogStatusFlags{})
	return cmd
}

var errInterrupt = errors.New("interrupt")

func main() {
	ctx := context.Background()
	ctx, cancel := context.WithCancelCause(ctx)
	cmdutil.HandleSignals(func() { cancel(errInterrupt) }, os.Interrupt)
	err := cli().Dispatch(ctx)
	if context.Cause(ctx) == errInterrupt {
		cmdutil.Exit("%v", errInterrupt)
	}
	if err != nil {
		cmdutil.Exit("%v", err)
	}
}
