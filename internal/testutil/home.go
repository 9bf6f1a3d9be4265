// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// HomeEnvVar is the environment variable os.UserHomeDir reads on this platform.
func HomeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points the platform home variable at dir for the rest of the
// test, so the default MapProjects folder resolves below it. Like t.Setenv,
// it cannot be used in parallel tests.
func SetHomeDir(t testing.TB, dir string) {
	t.Helper()
	t.Setenv(HomeEnvVar(), dir)
}
