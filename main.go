// SPDX-License-Identifier: MPL-2.0

// Command scriptdeck browses helper scripts and compiles their command lines.
package main

import cmd "github.com/scriptdeck/scriptdeck/cmd/scriptdeck"

func main() {
	cmd.Execute()
}
