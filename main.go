// SPDX-License-Identifier: MPL-2.0

package main

import cmd "dotsmith/cmd/dotsmith"

func main() {
	cmd.Execute()
}
