// @MX:ANCHOR: [AUTO] main is the entry point of the habit CLI; any error exits with status 1
// @MX:REASON: [AUTO] the only entry point of the binary, delegates to cli.Execute
package main

import (
	"os"

	"github.com/modu-ai/habit-tracker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
