package main

import (
	"os"

	"github.com/ilindan-dev/alertgate/internal/cli"
)

// main is the entry point for the alertgate dispatcher.
func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
