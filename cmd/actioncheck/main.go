// Command actioncheck validates action scenario files for the harness.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/actioncheck/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
