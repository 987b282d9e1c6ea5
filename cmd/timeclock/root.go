package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "timeclock",
	Short:   "Timeclock - employee work session tracking backend",
	Long:    `Timeclock is a time-tracking backend: owners register employees, employees check in and out of work sessions with a personal token, and worked durations are aggregated per day, week and month.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the serve command when no subcommand is provided
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
