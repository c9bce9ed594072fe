// Command xpubkit derives and inspects Bitcoin addresses from extended
// public keys.
package main

import (
	"os"

	"github.com/mrz1836/xpubkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
