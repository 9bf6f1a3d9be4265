// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared between gbpack packages.
package types
