// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include the home directory override (SetHomeDir),
// file operations (MustMkdirAll, MustWriteFile, MustReadFile) and map project
// fixtures (SampleProject, WriteProject).
package testutil
