// logmap mines structural templates from log streams.
// Single binary: learn templates online, scan for lines no template knows.
package main

import (
	"os"

	"github.com/corey/logmap/cmd/logmap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
