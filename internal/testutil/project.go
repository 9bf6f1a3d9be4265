// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"slices"
	"testing"
)

// Project describes a map project directory for tests. File names match the
// layout read by the assets package.
type Project struct {
	// Metadata is the content of projectFile.gbi.
	Metadata string
	Icon     []byte
	Banner   []byte
	// Textures maps file names under CustomTextures to their content.
	Textures map[string][]byte
	// MapCubes maps file names under MapData to their content.
	MapCubes map[string]string
	// Omit lists top-level entries (e.g. "icon.png", "MapData") to leave out.
	Omit []string
}

// SampleProject returns a small valid project: one texture and one map cube.
func SampleProject() Project {
	return Project{
		Metadata: "ignored\nMyMap\nA test map\nextra1\nextra2\n",
		Icon:     []byte{1, 2, 3},
		Banner:   []byte{},
		Textures: map[string][]byte{"tex1.png": {10, 20}},
		MapCubes: map[string]string{"a.mapCube": "cubeline1\n"},
	}
}

// WriteProject materializes p in a new temporary directory and returns its path.
func WriteProject(t testing.TB, p Project) string {
	t.Helper()
	return WriteProjectAt(t, filepath.Join(t.TempDir(), "project"), p)
}

// WriteProjectAt materializes p at dir, creating it if needed, and returns dir.
func WriteProjectAt(t testing.TB, dir string, p Project) string {
	t.Helper()
	MustMkdirAll(t, dir, 0o755)

	keep := func(name string) bool { return !slices.Contains(p.Omit, name) }

	if keep("projectFile.gbi") {
		MustWriteFile(t, filepath.Join(dir, "projectFile.gbi"), []byte(p.Metadata))
	}
	if keep("icon.png") {
		MustWriteFile(t, filepath.Join(dir, "icon.png"), p.Icon)
	}
	if keep("banner.png") {
		MustWriteFile(t, filepath.Join(dir, "banner.png"), p.Banner)
	}
	if keep("CustomTextures") {
		texDir := filepath.Join(dir, "CustomTextures")
		MustMkdirAll(t, texDir, 0o755)
		for name, data := range p.Textures {
			MustWriteFile(t, filepath.Join(texDir, name), data)
		}
	}
	if keep("MapData") {
		cubeDir := filepath.Join(dir, "MapData")
		MustMkdirAll(t, cubeDir, 0o755)
		for name, data := range p.MapCubes {
			MustWriteFile(t, filepath.Join(cubeDir, name), []byte(data))
		}
	}
	return dir
}
