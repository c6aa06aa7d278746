// Package main is the entry point for the tasktrack CLI.
package main

import (
	"os"

	"github.com/randalmurphal/tasktrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
