// densurf generates bivariate normal density surfaces and writes them as
// mesh files, plots or rendered snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/densurf/internal/logger"
)

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
