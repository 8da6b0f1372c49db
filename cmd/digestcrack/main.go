// Package main provides the entry point for the digestcrack CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/digestcrack/cmd/digestcrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
