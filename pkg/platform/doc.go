// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS name constants and the Windows file name rules
// gbpack checks before writing a map file. GoreBox runs on Windows, so exports
// made elsewhere are still expected to be copied there.
package platform
