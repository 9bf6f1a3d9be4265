// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/gbpack/gbpack/cmd/gbpack"

func main() {
	cmd.Execute()
}
