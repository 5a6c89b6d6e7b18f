// Copyright 2025 AutoH Cloud. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/autohcloud/wtime/internal/logging"
)

type LogFlags struct {
	Sensor string `subcmd:"sensor,,display log info for the specific sensor"`
	Entity string `subcmd:"entity,,display log info for the specific entity"`
}

type LogStatusFlags struct {
	LogFlags
	TSV bool `subcmd:"tsv,false,print the status in tab separated values"`
}

type Log struct {
	out io.Writer
}

type logEntryHandler func(logging.Entry) error

func (l *Log) processLog(rd io.Reader, fv *LogStatusFlags, lh logEntryHandler) error {
	sc := logging.NewScanner(rd)
	for le := range sc.Entries() {
		if len(fv.Sensor) > 0 && le.Sensor != fv.Sensor {
			continue
		}
		if len(fv.Entity) > 0 && le.Entity != fv.Entity {
			continue
		}
		if err := lh(le); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Status reconstructs the publish history from a service log file, or
// from stdin when no file is specified, and prints it as a table.
func (l *Log) Status(_ context.Context, flags any, args []string) error {
	fv := flags.(*LogStatusFlags)
	sr := logging.NewStatusRecorder()
	rd := os.Stdin
	if len(args) == 1 {
		fi, err := os.OpenFile(args[0], os.O_RDONLY, 0)
		if err != nil {
			return err
		}
		defer fi.Close()
		rd = fi
	}
	err := l.processLog(rd, fv, func(le logging.Entry) error {
		if !le.Published() {
			return nil
		}
		rec := sr.NewPending(le.StatusRecord())
		sr.PendingDone(rec, le.Err)
		return nil
	})
	tm := tableManager{}
	if fv.TSV {
		fmt.Fprintln(l.out, tm.CompletedAndPending(sr).RenderTSV())
	} else {
		fmt.Fprintln(l.out, tm.CompletedAndPending(sr).Render())
	}
	return err
}
