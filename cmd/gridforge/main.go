// Package main provides the CLI for the gridforge tabular data editor.
package main

import (
	"os"

	"github.com/gridforge-labs/gridforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
