// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ProjectNotFoundId Id = iota + 1
	MissingInputId
	MalformedInputId
	WriteFailedId
	ExportCanceledId
	ConfigLoadFailedId
	PermissionDeniedId
	ContainerInvalidId
	ProjectsDirNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with glamour. stylePath is a glamour
// style name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	projectNotFoundIssue = &Issue{
		id: ProjectNotFoundId,
		mdMsg: `
# Project folder not found!

The path you gave does not exist or is not a directory.

## Things you can try:
- List the projects GoreBox knows about:
~~~
$ gbpack projects
~~~
- Pass the full path of the project folder:
~~~
$ gbpack export ~/AppData/LocalLow/F2Games/GoreBox/MapProjects/MyMap
~~~`,
	}

	missingInputIssue = &Issue{
		id: MissingInputId,
		mdMsg: `
# Critical files or folders are missing!

A map project folder must contain all of the following:

| Entry | Kind |
|---|---|
| ` + "`MapData/`" + ` | folder of ` + "`*.mapCube`" + ` files |
| ` + "`CustomTextures/`" + ` | folder of ` + "`*.png`" + ` / ` + "`*.jpg`" + ` files |
| ` + "`projectFile.gbi`" + ` | project metadata |
| ` + "`icon.png`" + ` | map icon |
| ` + "`banner.png`" + ` | map banner |

## Things you can try:
- Save the map again from the GoreBox editor so it rewrites the project folder
- Check that you picked the project folder itself and not its parent
- The two folders may be empty, but they must exist`,
		extLinks: []HttpLink{"https://store.steampowered.com/app/2135010/GoreBox/"},
	}

	malformedInputIssue = &Issue{
		id: MalformedInputId,
		mdMsg: `
# The project contains data that cannot be packed!

## Common causes:
- ` + "`projectFile.gbi`" + ` has fewer than three lines
- A custom texture is named ` + "`§`" + ` or ` + "`~`" + `, or its file is not a valid image
- A name or description override spans several lines

## Things you can try:
- Open and save the project in the GoreBox editor
- Rename the offending texture file
- Run with ` + "`--verbose`" + ` to see which file was rejected`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Failed to write the map file!

The container could not be written to the output path. Any previous file at
that path has been left untouched.

## Things you can try:
- Check free disk space
- Choose another output path with ` + "`-o`" + `
- Close GoreBox if it holds the file open`,
	}

	exportCanceledIssue = &Issue{
		id: ExportCanceledId,
		mdMsg: `
# Export canceled

The export was stopped before it finished. No map file was written.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show where gbpack looks for its configuration:
~~~
$ gbpack config path
~~~
- Check ` + "`config.cue`" + ` against the allowed keys:
~~~cue
projects_dir:        "/path/to/MapProjects"
output_dir:          "/path/to/exports"
default_output_name: "CustomMap.gbmap"
ui: {
	color_scheme: "auto" // "dark", "light"
	verbose:      false
	progress:     "auto" // "tui", "plain", "none"
}
~~~
- Check ` + "`GBPACK_*`" + ` environment variables for invalid values`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

gbpack could not read the project or write the output.

## Things you can try:
- Check the permissions of the project folder and its files
- Pick an output folder you can write to with ` + "`-o`" + ``,
	}

	containerInvalidIssue = &Issue{
		id: ContainerInvalidId,
		mdMsg: `
# Not a valid map file!

The file is not a ` + "`V2`" + ` map container or it is truncated.

## Things you can try:
- Export the project again with ` + "`gbpack export`" + `
- Check that the file was copied completely`,
	}

	projectsDirNotFoundIssue = &Issue{
		id: ProjectsDirNotFoundId,
		mdMsg: `
# MapProjects folder not found!

GoreBox stores map projects under
` + "`~/AppData/LocalLow/F2Games/GoreBox/MapProjects`" + `.

## Things you can try:
- Pass the folder explicitly:
~~~
$ gbpack projects /path/to/MapProjects
~~~
- Set ` + "`projects_dir`" + ` in your configuration`,
	}

	issues = map[Id]*Issue{
		projectNotFoundIssue.Id():     projectNotFoundIssue,
		missingInputIssue.Id():        missingInputIssue,
		malformedInputIssue.Id():      malformedInputIssue,
		writeFailedIssue.Id():         writeFailedIssue,
		exportCanceledIssue.Id():      exportCanceledIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		containerInvalidIssue.Id():    containerInvalidIssue,
		projectsDirNotFoundIssue.Id(): projectsDirNotFoundIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
