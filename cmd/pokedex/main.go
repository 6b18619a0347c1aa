// Package main is the entry point for the pokedex CLI.
package main

import (
	"os"

	"github.com/f3rmion/pokedex/cmd/pokedex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
