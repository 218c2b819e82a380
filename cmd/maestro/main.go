// Package main is the entry point for the maestro orchestrator.
package main

import (
	"os"

	"github.com/bradjones1/maestro-ng/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
