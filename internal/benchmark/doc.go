// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds the benchmarks used to generate the PGO profile.
// They cover the hot paths of an export:
//   - decimal byte-line encoding of icons, banners and textures
//   - container writing and reading
//   - project gathering, including JPEG to PNG re-encoding
//   - project discovery in a MapProjects folder
//
// To generate a profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
