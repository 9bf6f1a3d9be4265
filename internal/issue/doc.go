// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the Markdown guidance shown
// for them.
//
// Each Id names a failure a user can fix (a missing project file, an
// unreadable container, a broken config file). The guidance is rendered with
// glamour below the error message, and ActionableError carries the operation,
// resource and suggestions that led to it.
package issue
