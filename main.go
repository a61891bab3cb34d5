// SPDX-License-Identifier: MPL-2.0

// Command cookbook resolves Chef cookbooks from layered directories.
package main

import cmd "github.com/sysbot/chef/cmd/cookbook"

func main() {
	cmd.Execute()
}
