// logsift - Log Event Extraction Tool
//
// logsift discovers log files under a directory, decompresses them, and
// extracts timestamped, levelled events with a named-group regular expression.
package main

import (
	"os"

	"github.com/ccollicutt/logsift/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
