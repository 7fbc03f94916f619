package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// API keys commonly live in a local .env during development; a missing
	// file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
