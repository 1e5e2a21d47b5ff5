package main

import (
	"os"

	cmd "github.com/mossy-p/roomrelay/cmd/signaling/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	// Do not print usage when the server itself fails
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
