// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/gbpack/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/gbpack/config.cue on macOS, %APPDATA%\gbpack\config.cue
// on Windows). Values can be overridden with GBPACK_* environment variables, e.g.
// GBPACK_OUTPUT_DIR or GBPACK_UI_PROGRESS.
//
// Files are validated against an embedded CUE schema (config_schema.cue) before they
// are merged over the defaults.
package config
