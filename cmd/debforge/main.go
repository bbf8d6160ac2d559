package main

import (
	"os"

	"github.com/arthur-debert/debforge/cmd/debforge/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
