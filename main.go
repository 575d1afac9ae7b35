// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for usercrud.
//
// Usage:
//
//	go run . [flags]
//	./usercrud [flags]
//
// Without a subcommand this starts the interactive menu. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/usercrud/ui/cli"
)

func main() {
	// Execute reports the error itself.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
