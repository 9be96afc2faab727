// cmd/bachat/main.go
package main

import (
	"os"

	"baniya/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCommand(version, os.Stdout).Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
