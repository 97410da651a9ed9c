// Package main is the entry point for the viewgen CLI binary.
package main

import (
	"os"

	cli "viewgen/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
