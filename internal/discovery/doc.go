// SPDX-License-Identifier: MPL-2.0

// Package discovery finds GoreBox map projects on disk.
//
// GoreBox keeps one folder per map under its MapProjects directory. A folder
// is listed when it holds both projectFile.gbi and icon.png; everything else
// is reported as a Diagnostic rather than an error so one broken folder does
// not hide the rest.
package discovery
