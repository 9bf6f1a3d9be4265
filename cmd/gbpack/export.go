// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gbpack/gbpack/internal/config"
	"github.com/gbpack/gbpack/internal/export"
	"github.com/gbpack/gbpack/internal/issue"
	"github.com/gbpack/gbpack/internal/tui"
	"github.com/gbpack/gbpack/internal/watch"
	"github.com/gbpack/gbpack/pkg/gbmap"
	"github.com/gbpack/gbpack/pkg/types"
)

// eventBuffer is the ChannelSink capacity. Progress is coalesced by the
// writer, so a few dozen slots keep the exporter from waiting on the display.
const eventBuffer = 64

type (
	// exportFlags holds the flags of `gbpack export`.
	exportFlags struct {
		output      string
		name        string
		description string
		progress    string
		watch       bool
	}

	exportOutcome struct {
		result export.Result
		err    error
	}
)

// newExportCommand creates the `gbpack export` command.
func newExportCommand(app *App) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <project-dir>",
		Short: "Export a map project as a .gbmap container",
		Long: `Export a map project folder as a .gbmap container.

The folder must contain projectFile.gbi, icon.png, banner.png and the
MapData and CustomTextures folders. The container is written next to a
temporary file and only replaces the output once it is complete.

Without -o the container is written to <output_dir>/<default_output_name>
(the current directory and CustomMap.gbmap by default). When -o names an
existing directory, the default file name is used inside it.

With --watch the project is exported again whenever one of its inputs
changes, until the command is interrupted. A failed export is reported
and the next change retries it.`,
		Example: `  gbpack export ./MyMap
  gbpack export ./MyMap -o ~/Desktop/MyMap.gbmap
  gbpack export ./MyMap --name "Night Run" --progress plain
  gbpack export ./MyMap --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), app, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file or directory")
	cmd.Flags().StringVar(&flags.name, "name", "", "override the map name")
	cmd.Flags().StringVar(&flags.description, "description", "", "override the map description")
	cmd.Flags().StringVar(&flags.progress, "progress", "", "progress display: auto, tui, plain or none (default from ui.progress)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-export whenever the project changes")

	return cmd
}

func runExport(ctx context.Context, app *App, projectDir string, flags exportFlags) error {
	if err := checkProjectDir(projectDir); err != nil {
		return app.fail(err)
	}

	mode, err := resolveProgressMode(flags.progress, app.cfg.UI.Progress, app.isTerminal(app.stdout))
	if err != nil {
		return app.fail(err)
	}

	outputPath, err := resolveOutputPath(app.cfg, flags.output)
	if err != nil {
		return app.fail(err)
	}

	req := export.Request{
		ProjectDir: projectDir,
		OutputPath: outputPath,
		Overrides:  gbmap.Overrides{Name: flags.name, Description: flags.description},
	}
	app.logger.Debug("export requested", "project", projectDir, "output", outputPath, "progress", mode)

	if flags.watch {
		return watchExport(ctx, app, req, mode)
	}

	res, err := exportOnce(ctx, app, req, mode)
	if err != nil {
		if export.Classify(err) == export.OutcomeCanceled {
			// The renderer already said so.
			return &ExitError{Code: types.ExitCanceled, Err: err, Rendered: true}
		}
		return app.fail(err)
	}
	printResult(app, res)
	return nil
}

// exportOnce runs one export while the chosen renderer shows its events.
func exportOnce(ctx context.Context, app *App, req export.Request, mode config.ProgressMode) (export.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sink := gbmap.NewChannelSink(eventBuffer)
	done := make(chan exportOutcome, 1)
	exporter := app.exporter()
	go func() {
		defer sink.Close()
		res, err := exporter.Run(ctx, req, sink)
		done <- exportOutcome{result: res, err: err}
	}()

	renderProgress(ctx, app, mode, filepath.Base(filepath.Clean(req.ProjectDir)), sink.Events(), cancel)

	// The renderer may stop early (program killed, terminal event seen);
	// keep draining so the exporter never blocks on a full channel.
	go func() {
		for range sink.Events() {
		}
	}()

	out := <-done
	return out.result, out.err
}

// watchExport exports once, then again after every settled change to the
// project, until ctx is canceled. Failed passes are reported and do not
// stop the watch.
func watchExport(ctx context.Context, app *App, req export.Request, mode config.ProgressMode) error {
	if mode == config.ProgressTUI {
		// A full-screen view per pass would hide the previous results.
		mode = config.ProgressPlain
	}

	pass := func(ctx context.Context) error {
		res, err := exportOnce(ctx, app, req, mode)
		switch {
		case err == nil:
			printResult(app, res)
		case ctx.Err() != nil:
			return nil
		default:
			_ = app.fail(err)
		}
		return err
	}

	w, err := watch.New(watch.Config{
		ProjectDir: req.ProjectDir,
		Ignore:     outputIgnores(req.ProjectDir, req.OutputPath),
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "\n%s %s\n", SubtitleStyle.Render("changed:"), strings.Join(changed, ", "))
			return pass(ctx)
		},
		Logger: app.logger,
	})
	if err != nil {
		return app.fail(err)
	}

	_ = pass(ctx)
	if ctx.Err() != nil {
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s %s\n", SubtitleStyle.Render("Watching"), CmdStyle.Render(req.ProjectDir), VerboseStyle.Render("(Ctrl+C to stop)"))

	if err := w.Run(ctx); err != nil {
		return app.fail(err)
	}
	return nil
}

// outputIgnores keeps a container written inside the project folder from
// triggering the next pass.
func outputIgnores(projectDir, outputPath string) []string {
	absProject, err1 := filepath.Abs(projectDir)
	absOutput, err2 := filepath.Abs(outputPath)
	if err1 != nil || err2 != nil {
		return nil
	}
	rel, err := filepath.Rel(absProject, absOutput)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{doublestarEscape(filepath.ToSlash(rel))}
}

// doublestarEscape quotes the glob metacharacters of a literal path.
func doublestarEscape(path string) string {
	var b strings.Builder
	for _, r := range path {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// checkProjectDir reports a missing or non-directory project path.
func checkProjectDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	if err == nil {
		return nil
	}
	return issue.NewErrorContext().
		WithOperation("open project folder").
		WithResource(dir).
		WithIssue(issue.ProjectNotFoundId).
		Wrap(err).
		BuildError()
}

// renderProgress shows events until the export ends.
func renderProgress(ctx context.Context, app *App, mode config.ProgressMode, title string, events <-chan gbmap.Event, cancel context.CancelFunc) {
	switch mode {
	case config.ProgressTUI:
		_, err := tui.Run(ctx, events, cancel, tui.Config{Output: app.stdout, Title: title})
		if err != nil {
			app.logger.Debug("progress display stopped", "error", err)
			cancel()
		}
	case config.ProgressNone:
		tui.RenderPlain(app.stdout, events, tui.PlainQuiet)
	default:
		tui.RenderPlain(app.stdout, events, tui.PlainPhases)
	}
}

// resolveProgressMode applies the --progress flag over ui.progress and
// resolves auto against the terminal.
func resolveProgressMode(flag string, configured config.ProgressMode, terminal bool) (config.ProgressMode, error) {
	mode := configured
	if flag != "" {
		mode = config.ProgressMode(flag)
	}
	if valid, errs := mode.IsValid(); !valid {
		return "", errs[0]
	}
	if mode == config.ProgressAuto {
		if terminal {
			return config.ProgressTUI, nil
		}
		return config.ProgressPlain, nil
	}
	return mode, nil
}

// resolveOutputPath returns the container path for an export.
func resolveOutputPath(cfg *config.Config, output string) (string, error) {
	if valid, errs := cfg.DefaultOutputName.IsValid(); !valid {
		return "", errs[0]
	}
	name := cfg.DefaultOutputName.String()

	if output == "" {
		dir := cfg.OutputDir.String()
		if dir == "" {
			dir = "."
		}
		return filepath.Join(dir, name), nil
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name), nil
	}
	return output, nil
}

func printResult(app *App, res export.Result) {
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Wrote"), CmdStyle.Render(res.OutputPath))
	fmt.Fprintf(app.stdout, "  %s %d bytes, %d texture(s), %d map cube file(s)\n",
		SubtitleStyle.Render("size:"), res.Bytes, res.Textures, res.MapCubes)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("sha256:"), res.SHA256)
	if app.verbose {
		fmt.Fprintf(app.stdout, "  %s %s\n", VerboseStyle.Render("took:"), res.Duration.Round(time.Millisecond))
	}
}
