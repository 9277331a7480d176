// Package main provides the pumsgen CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/pumsgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
