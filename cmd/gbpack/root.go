// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gbpack/gbpack/internal/config"
	"github.com/gbpack/gbpack/pkg/types"
)

const (
	// logTimeFormat matches the timestamps of the exporter's detailed log.
	logTimeFormat = "2006-01-02 15:04:05"

	// annotationTolerateConfig marks commands that must keep working when the
	// config file is broken (so it can be inspected or recreated).
	annotationTolerateConfig = "gbpack/tolerate-config-errors"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the gbpack command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "gbpack",
		Short: "Export GoreBox map projects as GBMAP containers",
		Long: TitleStyle.Render("gbpack") + SubtitleStyle.Render(" - GoreBox map project exporter") + `

gbpack packs a GoreBox map project folder (projectFile.gbi, icon.png,
banner.png, MapData and CustomTextures) into a single .gbmap container
that the game can import.

` + SubtitleStyle.Render("Examples:") + `
  gbpack projects                      List projects in the MapProjects folder
  gbpack export ./MyMap                Export to CustomMap.gbmap
  gbpack export ./MyMap -o out.gbmap   Export to a specific file
  gbpack inspect out.gbmap             Summarize a container
  gbpack config show                   Show current configuration`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initRuntime(cmd)
		},
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gbpack/config.cue)")

	root.AddCommand(
		newExportCommand(app),
		newProjectsCommand(app),
		newInspectCommand(app),
		newConfigCommand(app),
	)

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's exit code.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleTopLevelError),
	); err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// handleTopLevelError prints errors that no command has rendered yet.
func handleTopLevelError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Rendered {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func exitCodeOf(err error) types.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// initRuntime loads the configuration and installs the logger.
// --verbose wins over ui.verbose.
func (a *App) initRuntime(cmd *cobra.Command) error {
	cfg, path, err := a.Config.Resolve(cmd.Context(), config.LoadOptions{ConfigFilePath: a.cfgFile})
	if err != nil {
		if !toleratesConfigErrors(cmd) {
			return a.fail(err)
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
		cfg, path = config.DefaultConfig(), ""
	}

	a.cfg, a.cfgPath = cfg, path
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	a.logger = newLogger(a.stderr, a.verbose)
	a.logger.Debug("configuration loaded", "path", path, "verbose", a.verbose)
	return nil
}

func toleratesConfigErrors(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationTolerateConfig]; ok {
			return true
		}
	}
	return false
}

// newLogger returns a slog logger backed by charm log. Exporter detail is
// logged at info level, so it only shows with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	}))
}
