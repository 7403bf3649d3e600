// Command contexta assembles relevant impact-measurement content for
// free-text queries.
package main

import (
	"os"

	"github.com/quillframe/contexta/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
