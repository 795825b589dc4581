package main

import (
	"fmt"
	"os"

	"reclaim/internal/services"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(services.ExitCode(err))
	}
}
