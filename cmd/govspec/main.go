// Package main provides the govspec binary entry point.
package main

import (
	"fmt"
	"os"

	"github.com/c360studio/govspec/commands"
)

func main() {
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
