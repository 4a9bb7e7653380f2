package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-scaffold/pkg/logging"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "scaffold",
	Short: "Generate projects from templates",
	Long: `scaffold materializes a project from a template tree: placeholder
tokens in file contents, file names, and directory names are substituted with
your answers, and files gated by declined features are pruned.

A template is a directory carrying a scaffold.yaml declaration of its keys,
inclusion rules, and post-generation hooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbosity)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity (-v, -vv, -vvv)")
}
