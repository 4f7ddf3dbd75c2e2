package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NicholasPiano/arktic/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arktic",
	Short: "Arktic crowd transcription API server",
	Long: `Arktic - a workflow manager for crowd transcription correction.

Audio transcriptions arrive grouped into grammars. Workers claim
batches of transcriptions as jobs, submit corrected utterances as
revisions, and completed grammars are exported as reference files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it.
// Version and help runs skip it so they work without a config file.
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
