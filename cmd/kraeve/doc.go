// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the kraeve CLI commands.
//
// Commands are built around an App that holds the configuration provider and
// output writers. Every command that needs a registry loads the configuration,
// runs discovery from the start directory and registers configured aliases, the
// same way a program embedding pkg/kraeve would.
package cmd
