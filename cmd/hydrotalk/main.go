// Package main provides the entry point for the hydrotalk CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ingres-ai/hydrotalk/internal/cli"
)

func main() {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
