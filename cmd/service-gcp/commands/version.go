package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd constructs the `service-gcp version` subcommand.
// The version is injected at build time via -ldflags and falls back
// to "dev" for local builds.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service-gcp version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("service-gcp %s\n", version)
		},
	}
}
