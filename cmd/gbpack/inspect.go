// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/gbpack/gbpack/internal/issue"
	"github.com/gbpack/gbpack/pkg/gbmap"
)

const (
	formatText = "text"
	formatTOML = "toml"
)

type (
	// containerSummary is what `gbpack inspect` reports about a container.
	containerSummary struct {
		Path         string           `toml:"path"`
		Version      string           `toml:"version"`
		Name         string           `toml:"name"`
		Description  string           `toml:"description"`
		MapCubeCount int              `toml:"map_cube_count"`
		MapCubeLines int              `toml:"map_cube_lines"`
		Metadata     []string         `toml:"metadata"`
		IconBytes    int              `toml:"icon_bytes"`
		BannerBytes  int              `toml:"banner_bytes"`
		Textures     []textureSummary `toml:"textures"`
	}

	textureSummary struct {
		Name  string `toml:"name"`
		Bytes int    `toml:"bytes"`
	}
)

// newInspectCommand creates the `gbpack inspect` command.
func newInspectCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <file.gbmap>",
		Short: "Summarize a .gbmap container",
		Long: `Read a .gbmap container and print its header, metadata and section sizes.

Use --format toml for machine-readable output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectContainer(app, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or toml")

	return cmd
}

func inspectContainer(app *App, path, format string) error {
	if format != formatText && format != formatTOML {
		return app.fail(fmt.Errorf("unknown format %q (valid: text, toml)", format))
	}

	summary, err := summarizeContainer(path)
	if err != nil {
		return app.fail(err)
	}

	if format == formatTOML {
		data, err := toml.Marshal(summary)
		if err != nil {
			return app.fail(fmt.Errorf("failed to encode summary: %w", err))
		}
		_, err = app.stdout.Write(data)
		return err
	}

	printSummary(app, summary)
	return nil
}

func summarizeContainer(path string) (*containerSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open container").
			WithResource(path).
			WithSuggestion("Check the path; containers are usually named *.gbmap").
			Wrap(err).
			BuildError()
	}
	defer f.Close()

	c, err := gbmap.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s := &containerSummary{
		Path:         path,
		Version:      c.Version,
		Name:         c.Name,
		Description:  c.Description,
		MapCubeCount: c.MapCubeCount,
		MapCubeLines: len(c.MapCubeLines),
		Metadata:     c.Metadata,
		IconBytes:    len(c.Icon),
		BannerBytes:  len(c.Banner),
	}
	for _, t := range c.Textures {
		s.Textures = append(s.Textures, textureSummary{Name: t.Name, Bytes: len(t.Data)})
	}
	return s, nil
}

func printSummary(app *App, s *containerSummary) {
	w := app.stdout
	row := func(key string, value any) {
		fmt.Fprintf(w, "  %-14s %v\n", CmdStyle.Render(key), value)
	}

	fmt.Fprintln(w, TitleStyle.Render(s.Path))
	row("version", s.Version)
	row("name", s.Name)
	row("description", s.Description)
	row("map cubes", fmt.Sprintf("%d file(s), %d line(s)", s.MapCubeCount, s.MapCubeLines))
	row("icon", fmt.Sprintf("%d bytes", s.IconBytes))
	row("banner", fmt.Sprintf("%d bytes", s.BannerBytes))

	fmt.Fprintf(w, "  %s\n", CmdStyle.Render("metadata"))
	if len(s.Metadata) == 0 {
		fmt.Fprintf(w, "    %s\n", SubtitleStyle.Render("(none)"))
	}
	for _, line := range s.Metadata {
		fmt.Fprintf(w, "    %s\n", line)
	}

	fmt.Fprintf(w, "  %s\n", CmdStyle.Render(fmt.Sprintf("textures (%d)", len(s.Textures))))
	for _, t := range s.Textures {
		fmt.Fprintf(w, "    %s %s\n", t.Name, SubtitleStyle.Render(fmt.Sprintf("%d bytes", t.Bytes)))
	}
}
