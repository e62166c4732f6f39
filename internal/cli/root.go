// Package cli assembles fnug's cobra command tree: `run`, `config` and
// `check`, plus the global --verbose/--quiet/--log-file/--version flags,
// one persistent flag set on the root command and one file per
// subcommand.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:           "fnug",
	Short:         "Run linters, formatters and tests from a command tree, with live terminal output",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the fnug config file (default: search .fnug.json/.fnug.yaml/.fnug.yml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug-level logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "error-level logging only")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
