package main

// Copyright (C) 2026 by Posit Software, PBC.

import (
	"log"
	"os"

	"github.com/rstudio/logstream/cmd/logpipe/cmd"
)

func init() {
	log.SetFlags(0)
}

func main() {
	log.SetOutput(os.Stderr)
	cmd.RootCmd.SetOut(os.Stdout)
	cmd.RootCmd.SetErr(os.Stderr)
	// Each command is in the cmd subdirectory and the RootCmd houses
	// the global and inherited properties.
	err := cmd.RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
