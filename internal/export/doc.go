// SPDX-License-Identifier: MPL-2.0

// Package export runs the full map export pipeline: gather the project
// assets, write the container to a temporary file next to the output, and
// publish it with a rename once it is complete. A failed or canceled export
// never leaves a partial container at the output path.
//
// Run is synchronous; callers that own a display run it on a worker
// goroutine and consume notifications through a gbmap.ChannelSink.
package export
