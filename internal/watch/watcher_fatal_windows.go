// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes returned by ReadDirectoryChangesW.
const (
	errTooManyOpenFiles = syscall.Errno(4)
	errInvalidHandle    = syscall.Errno(6) // project folder deleted or unmounted
	errNotEnoughMemory  = syscall.Errno(8)
)

// isResourceExhausted reports whether err leaves the directory handle
// unusable. Run stops on these because no further events will be delivered
// for the project.
func isResourceExhausted(err error) bool {
	return errors.Is(err, errTooManyOpenFiles) ||
		errors.Is(err, errInvalidHandle) ||
		errors.Is(err, errNotEnoughMemory)
}
