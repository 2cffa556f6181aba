// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/kraeve/kraeve/cmd/kraeve"

func main() {
	cmd.Execute()
}
