// Package main is the entry point for the plucktv application.
package main

import (
	"os"

	"github.com/plucktv/plucktv/cmd/plucktv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
