package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"promoctl/pkg/config"
)

var (
	// Global flags
	flagJSON    bool
	flagRaw     bool
	flagQuiet   bool
	flagVerbose bool

	// Version metadata (filled by goreleaser)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "promoctl",
	Short: "promoctl - promotion console",
	Long:  "Operator console for the social-engagement promotion scheduler",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if _, err := config.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
			os.Exit(1)
		}
		logrus.SetLevel(logrus.WarnLevel)
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVar(&flagRaw, "raw", false, "Minimal human output (no decoration)")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}
