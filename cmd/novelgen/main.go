// Command novelgen runs the agent story simulation.
package main

import (
	"os"

	"github.com/talgya/novelgen/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
