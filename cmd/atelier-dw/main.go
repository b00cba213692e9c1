// Package main is the entry point for atelier-dw.
package main

import (
	"fmt"
	"os"

	"github.com/atelierdata/atelier-dw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
