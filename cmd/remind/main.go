package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "remind",
	Short: "A lightweight command-line reminder manager",
	Long: `remind schedules short free-text reminders and pops up a modal
dialog when they come due.

Time formats:
  hh:mm  next occurrence of that wall-clock time (e.g. 18:30)
  Nm     N minutes from now, 1-500 (e.g. 25m)
  Nh     N hours from now, 1-24 (e.g. 2h)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Bare `remind` lists reminders, same as `remind list`.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
