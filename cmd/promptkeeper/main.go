// Command promptkeeper manages prompts, tags, and cluster assignments in a
// local SQLite database and serves them over HTTP.
package main

import (
	"os"

	"github.com/mesh-intelligence/promptkeeper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
