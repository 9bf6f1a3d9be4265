// SPDX-License-Identifier: MPL-2.0

// Package assets gathers the inputs of a map project directory into a
// gbmap.AssetSet.
//
// A project directory holds:
//
//	MapData/*.mapCube          map cube blocks
//	CustomTextures/*.png|*.jpg custom textures
//	projectFile.gbi            project metadata
//	icon.png                   map icon
//	banner.png                 map banner
//
// All five entries are required, even when the two directories are empty.
// Directory listings are sorted by file name so the same project always
// produces the same container.
package assets
