// Command duet runs the bulb scenario between a model agent and a simulated or human user.
package main

import (
	"os"

	"github.com/rickchristie/duet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
