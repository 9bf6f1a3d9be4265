// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for gbpack.
//
// The root command is executed through fang. Every subcommand receives an
// *App, the composition root holding the configuration provider, the
// exporter and the output streams, so tests can drive commands against
// buffers and temporary directories.
package cmd
