// Command metaclass compiles class declarations and queries the resulting
// class objects.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/metaclass/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own ExitErrors; anything else comes from
		// cobra itself (unknown flag, missing argument).
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
