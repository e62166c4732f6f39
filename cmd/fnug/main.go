// Command fnug is the CLI entrypoint: it wires internal/cli's cobra
// command tree to the process's exit codes.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fnug/fnug/internal/cli"
	"github.com/fnug/fnug/internal/config"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var invalid *config.ConfigInvalid
		if errors.As(err, &invalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
