// Package main is the entry point for the tribunal CLI.
package main

import (
	"fmt"
	"os"

	"github.com/quorumlab/tribunal/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
