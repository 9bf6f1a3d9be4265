// SPDX-License-Identifier: MPL-2.0

package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gbpack/gbpack/pkg/gbmap"
)

const (
	// MapDataDir holds the map cube files.
	MapDataDir = "MapData"
	// CustomTexturesDir holds the custom texture images.
	CustomTexturesDir = "CustomTextures"
	// ProjectFile holds the project metadata lines.
	ProjectFile = "projectFile.gbi"
	// IconFile is the map icon image.
	IconFile = "icon.png"
	// BannerFile is the map banner image.
	BannerFile = "banner.png"
	// MapCubeExt is the extension of map cube files.
	MapCubeExt = ".mapCube"
)

// requiredEntry is one entry CheckLayout looks for.
type requiredEntry struct {
	asset string
	name  string
	dir   bool
}

var requiredEntries = []requiredEntry{
	{asset: "map data directory", name: MapDataDir, dir: true},
	{asset: "custom textures directory", name: CustomTexturesDir, dir: true},
	{asset: "project metadata", name: ProjectFile},
	{asset: "icon", name: IconFile},
	{asset: "banner", name: BannerFile},
}

// CheckLayout verifies that every required entry of a project directory
// exists with the right kind. All missing entries are reported together as
// joined *gbmap.MissingInputError values.
func CheckLayout(dir string) error {
	var errs []error
	for _, e := range requiredEntries {
		path := filepath.Join(dir, e.name)
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, &gbmap.MissingInputError{Asset: e.asset, Path: path, Cause: err})
		case e.dir && !info.IsDir():
			errs = append(errs, &gbmap.MissingInputError{Asset: e.asset, Path: path, Cause: fmt.Errorf("%s is not a directory", e.name)})
		case !e.dir && info.IsDir():
			errs = append(errs, &gbmap.MissingInputError{Asset: e.asset, Path: path, Cause: fmt.Errorf("%s is a directory", e.name)})
		}
	}
	return errors.Join(errs...)
}

// MissingInputs returns the MissingInputError values contained in err.
func MissingInputs(err error) []*gbmap.MissingInputError {
	var out []*gbmap.MissingInputError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *gbmap.MissingInputError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
