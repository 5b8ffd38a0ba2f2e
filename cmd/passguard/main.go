package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/passguard/passguard-go/internal/cli"
)

func main() {
	// Best effort: CLI runs fine on bare environment variables.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
