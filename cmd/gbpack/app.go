// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/gbpack/gbpack/internal/config"
	"github.com/gbpack/gbpack/internal/export"
	"github.com/gbpack/gbpack/internal/tui"
	"github.com/gbpack/gbpack/pkg/gbmap"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and delegate
	// work through its service interfaces.
	App struct {
		Config   ConfigProvider
		Exporter ExportService

		stdout     io.Writer
		stderr     io.Writer
		isTerminal func(io.Writer) bool

		// Per-invocation state, filled by the root command's PersistentPreRunE.
		verbose bool
		cfgFile string
		cfg     *config.Config
		cfgPath string
		logger  *slog.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Exporter ExportService
		Stdout   io.Writer
		Stderr   io.Writer
		// IsTerminal reports whether a writer is an interactive terminal.
		IsTerminal func(io.Writer) bool
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// ExportService runs one export, reporting progress to sink.
	// Implementations must emit exactly one finished or error notification.
	ExportService interface {
		Run(ctx context.Context, req export.Request, sink gbmap.ProgressSink) (export.Result, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = tui.IsTerminal
	}

	return &App{
		Config:     deps.Config,
		Exporter:   deps.Exporter,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		isTerminal: deps.IsTerminal,
		cfg:        config.DefaultConfig(),
		logger:     slog.New(slog.DiscardHandler),
	}
}

// exporter returns the injected ExportService or a production exporter
// logging through the App's logger.
func (a *App) exporter() ExportService {
	if a.Exporter != nil {
		return a.Exporter
	}
	return export.New(export.WithLogger(a.logger))
}

// glamourStyle picks the issue rendering style for stderr.
func (a *App) glamourStyle() string {
	if !a.isTerminal(a.stderr) {
		return "notty"
	}
	return a.cfg.UI.ColorScheme.String()
}
