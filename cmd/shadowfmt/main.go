// shadowfmt keeps a formatted shadow copy of a source tree in sync.
package main

import (
	"os"

	"github.com/hupe1980/shadowfmt/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
