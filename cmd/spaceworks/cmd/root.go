package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"spaceworks/cmd/spaceworks/cmd/export"
	"spaceworks/cmd/spaceworks/cmd/serve"
	"spaceworks/cmd/spaceworks/cmd/version"
	"spaceworks/cmd/spaceworks/cmd/watch"
	"spaceworks/cmd/spaceworks/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "spaceworks",
	Short: "Asynchronous AI job processing for Spaces",
	Long: `Asynchronous AI job processing for Spaces.

- Producers enqueue transcription, translation and video jobs against a Space
- One worker daemon per job kind consumes them oldest-first
- Metered operations are priced and debited from the user's credit balance`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(watch.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
