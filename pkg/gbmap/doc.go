// SPDX-License-Identifier: MPL-2.0

// Package gbmap reads and writes GBMAP map containers.
//
// A GBMAP container is a flat, line-oriented UTF-8 text file. Sections are
// separated by a line holding only the section delimiter (§), binary blobs
// are stored one decimal byte value per line, and every custom texture run is
// closed by the texture sentinel (~). The layout is:
//
//	V2
//	<name>
//	<description>
//	§
//	<map cube count>
//	<texture count>
//	<metadata lines 3..n>
//	§
//	<icon bytes>
//	§
//	<banner bytes>
//	§
//	<texture name> <texture bytes> ~   (repeated)
//	§
//	<map cube lines>
//	§
//
// Writer serializes an AssetSet and reports phases and progress to a
// ProgressSink. Read parses a container back for inspection and tests.
package gbmap
