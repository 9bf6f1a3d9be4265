// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"io"

	"github.com/gbpack/gbpack/pkg/gbmap"
)

// PlainMode selects what RenderPlain prints.
type PlainMode int

const (
	// PlainPhases prints phase changes with the current percentage, plus log lines.
	PlainPhases PlainMode = iota
	// PlainQuiet prints only the final result line.
	PlainQuiet
)

// RenderPlain drains events and writes one line per phase and log entry.
// It returns when a terminal event arrives or the channel is closed.
func RenderPlain(w io.Writer, events <-chan gbmap.Event, mode PlainMode) Summary {
	var (
		summary Summary
		percent int
	)
	for e := range events {
		switch e.Kind {
		case gbmap.EventProgress:
			percent = e.Percent
		case gbmap.EventPhase:
			if mode == PlainPhases {
				fmt.Fprintf(w, "[%3d%%] %s\n", percent, e.Phase)
			}
		case gbmap.EventLog:
			if mode == PlainPhases {
				fmt.Fprintln(w, logStyle.Render(e.Line))
			}
		case gbmap.EventFinished:
			summary.Finished = true
			summary.Message = finishedMessage(e)
			fmt.Fprintln(w, okStyle.Render(summary.Message))
			return summary
		case gbmap.EventError:
			summary.Message = e.Message
			fmt.Fprintln(w, errStyle.Render(e.Message))
			return summary
		}
	}
	return summary
}
