// Package commands defines the Cobra CLI commands for the service-gcp binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/LuisVera22/service-gcp/internal/logger"
)

// configPath holds the --config flag value.
var configPath string

// verbose holds the --verbose flag value.
var verbose bool

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "service-gcp",
		Short: "Semantic search over a Google Drive folder",
		Long: `service-gcp indexes the documents in a Google Drive folder into an
in-memory vector index and answers natural-language queries over HTTP.

Provider credentials come from the environment (OPENAI_API_KEY,
DRIVE_ACCESS_TOKEN) or a service-account key referenced by the config
file. See 'service-gcp serve --help' to run the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.SetVerbose(verbose)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to TOML config file")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose pipeline logging")

	root.AddCommand(
		NewServeCmd(),
		NewVersionCmd(),
	)

	return root
}
