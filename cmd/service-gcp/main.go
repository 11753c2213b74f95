// Command service-gcp answers natural-language queries against the
// documents in a Google Drive folder using an in-memory semantic index.
package main

import (
	"fmt"
	"os"

	"github.com/LuisVera22/service-gcp/cmd/service-gcp/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
