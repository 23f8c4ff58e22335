// Package cmd implements the tasknest CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"
const logo = "🪺"

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "tasknest",
	Short: logo + " tasknest — chat-driven task management",
	Long:  logo + " tasknest — manage your to-do list through natural language chat",
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(digestCmd)
}
