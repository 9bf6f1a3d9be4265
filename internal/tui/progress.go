// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gbpack/gbpack/pkg/gbmap"
)

const (
	keyCtrlC = "ctrl+c"

	// FinishedMessage is shown when the exporter reports success.
	FinishedMessage = "Map file created successfully!"

	defaultBarWidth = 40
	// maxLogLines is how many recent log lines stay on screen.
	maxLogLines = 5
)

type (
	// Summary is what a renderer saw by the time the event stream ended.
	Summary struct {
		// Finished is true when a finished event arrived.
		Finished bool
		// Message is the terminal event's message ("" when the stream ended without one).
		Message string
		// Canceled is true when the user asked to stop.
		Canceled bool
	}

	// Model is the Bubble Tea model for one export.
	Model struct {
		events <-chan gbmap.Event
		cancel context.CancelFunc

		title   string
		phase   string
		percent int
		logs    []string

		canceling bool
		done      bool
		summary   Summary

		spinner spinner.Model
		bar     progress.Model
		width   int
	}

	eventMsg  gbmap.Event
	closedMsg struct{}
)

// NewModel creates a progress model reading events until a terminal event or
// until the channel is closed. cancel is called once when the user presses
// ctrl+c, q or esc; the model keeps running until the exporter acknowledges.
func NewModel(events <-chan gbmap.Event, cancel context.CancelFunc, cfg Config) *Model {
	width := cfg.Width
	if width <= 0 {
		width = defaultBarWidth
	}
	return &Model{
		events:  events,
		cancel:  cancel,
		title:   cfg.Title,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(width)),
		width:   width,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(gbmap.Event(msg))
		if m.done {
			return m, tea.Quit
		}
		return m, m.waitForEvent()
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, "q", "esc":
			m.requestCancel()
		}
		return m, nil
	case tea.WindowSizeMsg:
		if w := msg.Width - 4; w > 0 && w < m.width {
			m.bar.Width = w
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	if m.title != "" {
		b.WriteString(accentStyle.Render(m.title))
		b.WriteByte('\n')
	}

	switch {
	case m.done && m.summary.Finished:
		b.WriteString(okStyle.Render("✓ " + m.summary.Message))
	case m.done && m.summary.Message != "":
		b.WriteString(errStyle.Render("✗ " + m.summary.Message))
	default:
		phase := m.phase
		if m.canceling {
			phase = "Canceling..."
		}
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), phaseStyle.Render(phase))
	}
	b.WriteByte('\n')
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	b.WriteByte('\n')

	for _, line := range m.logs {
		b.WriteString(logStyle.Render(line))
		b.WriteByte('\n')
	}

	if !m.done && !m.canceling {
		b.WriteString(logStyle.Render("q/esc: cancel"))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary returns what the model saw.
func (m *Model) Summary() Summary { return m.summary }

// Percent returns the last reported progress percentage.
func (m *Model) Percent() int { return m.percent }

// Phase returns the last reported phase label.
func (m *Model) Phase() string { return m.phase }

func (m *Model) apply(e gbmap.Event) {
	switch e.Kind {
	case gbmap.EventPhase:
		m.phase = e.Phase
	case gbmap.EventProgress:
		m.percent = e.Percent
	case gbmap.EventLog:
		m.logs = append(m.logs, e.Line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
	case gbmap.EventFinished:
		m.done = true
		m.percent = 100
		m.summary.Finished = true
		m.summary.Message = finishedMessage(e)
	case gbmap.EventError:
		m.done = true
		m.summary.Message = e.Message
	}
}

func (m *Model) requestCancel() {
	if m.canceling || m.done {
		return
	}
	m.canceling = true
	m.summary.Canceled = true
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

// Run runs the model as a Bubble Tea program on cfg.Output until the export
// ends, and returns its summary.
func Run(ctx context.Context, events <-chan gbmap.Event, cancel context.CancelFunc, cfg Config) (Summary, error) {
	m := NewModel(events, cancel, cfg)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		return fm.Summary(), err
	}
	return m.Summary(), err
}

func finishedMessage(e gbmap.Event) string {
	if e.Message != "" {
		return e.Message
	}
	return FinishedMessage
}
