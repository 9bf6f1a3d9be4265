// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbpack/gbpack/internal/discovery"
)

// newProjectsCommand creates the `gbpack projects` command.
func newProjectsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "projects [dir]",
		Short: "List map projects in the GoreBox MapProjects folder",
		Long: `List the map projects that can be exported.

A project is a sub-folder holding projectFile.gbi and icon.png. Projects are
labelled with the map name from projectFile.gbi and sorted by folder name.

The folder listed is, in order: the dir argument, the projects_dir setting,
or ~/AppData/LocalLow/F2Games/GoreBox/MapProjects.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			return listProjects(app, dir)
		},
	}
}

func listProjects(app *App, dir string) error {
	res, err := discovery.New(app.cfg).List(dir)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintf(app.stdout, "%s %s %s\n", TitleStyle.Render("Map projects in"),
		CmdStyle.Render(res.Dir), SubtitleStyle.Render("("+res.Source.String()+")"))

	if len(res.Projects) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(no projects found)"))
	}

	width := 0
	for _, p := range res.Projects {
		width = max(width, len(p.Label))
	}
	for _, p := range res.Projects {
		fmt.Fprintf(app.stdout, "  %-*s  %s\n", width, p.Label, SubtitleStyle.Render(p.Folder))
	}

	for _, d := range res.Diagnostics {
		switch {
		case d.Severity == discovery.SeverityError:
			fmt.Fprintf(app.stderr, "%s %s\n", ErrorStyle.Render("error:"), d.Message)
		case app.verbose:
			fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("warning:"), d.Message)
		}
	}

	return nil
}
