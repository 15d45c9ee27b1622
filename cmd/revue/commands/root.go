package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// daemonAddr is the base URL of the revued JSON API.
	daemonAddr string

	// outputFormat controls output format (text, json).
	outputFormat string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "revue",
	Short: "Revue peer review assistant CLI",
	Long: `Revue CLI drives the revued daemon from the terminal.

Submit papers for review, follow their pipeline status, argue your case in
the rebuttal dialogue, and export finished reviews.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultAddr := "http://localhost:8080"
	if env := os.Getenv("REVUE_ADDR"); env != "" {
		defaultAddr = env
	}

	// Global flags.
	rootCmd.PersistentFlags().StringVar(
		&daemonAddr, "addr", defaultAddr,
		"Base URL of the revued daemon (env REVUE_ADDR)",
	)
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)

	// Add subcommands.
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(conferencesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
