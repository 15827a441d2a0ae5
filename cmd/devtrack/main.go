// Package main provides devtrack, a sidecar development tracker for
// AppDNA model files.
package main

import (
	"os"

	"github.com/appdna/devtrack/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
}
