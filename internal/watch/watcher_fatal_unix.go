// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isResourceExhausted reports whether err means inotify or the process ran
// out of watches or descriptors. Run stops on these because no further
// events will be delivered for the project.
func isResourceExhausted(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
