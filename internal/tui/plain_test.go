// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gbpack/gbpack/pkg/gbmap"
)

func feed(events ...gbmap.Event) <-chan gbmap.Event {
	ch := make(chan gbmap.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	events := feed(
		gbmap.Event{Kind: gbmap.EventLog, Line: "Compiling gbmap file..."},
		gbmap.Event{Kind: gbmap.EventPhase, Phase: "Writing map version"},
		gbmap.Event{Kind: gbmap.EventProgress, Percent: 30},
		gbmap.Event{Kind: gbmap.EventPhase, Phase: "Writing map cube data 1/1"},
		gbmap.Event{Kind: gbmap.EventFinished},
	)

	var out bytes.Buffer
	s := RenderPlain(&out, events, PlainPhases)

	if !s.Finished || s.Message != FinishedMessage {
		t.Errorf("Summary = %+v", s)
	}
	for _, want := range []string{
		"Compiling gbmap file...",
		"[  0%] Writing map version",
		"[ 30%] Writing map cube data 1/1",
		FinishedMessage,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderPlain_Quiet(t *testing.T) {
	t.Parallel()

	events := feed(
		gbmap.Event{Kind: gbmap.EventPhase, Phase: "Writing map version"},
		gbmap.Event{Kind: gbmap.EventError, Message: "Export canceled."},
	)

	var out bytes.Buffer
	s := RenderPlain(&out, events, PlainQuiet)

	if s.Finished || s.Message != "Export canceled." {
		t.Errorf("Summary = %+v", s)
	}
	if strings.Contains(out.String(), "Writing map version") {
		t.Errorf("quiet mode printed a phase:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Export canceled.") {
		t.Errorf("quiet mode should print the final line:\n%s", out.String())
	}
}

func TestRenderPlain_ClosedWithoutTerminal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := RenderPlain(&out, feed(), PlainPhases)
	if s != (Summary{}) {
		t.Errorf("Summary = %+v, want zero", s)
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}
}
