// Package main provides the leapcompat CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapcompat/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
