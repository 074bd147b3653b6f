// Package cmd provides the sourcepick command line.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/sourcepick/config"
)

var configFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sourcepick",
		Short: "Tag JSX with source provenance and pick components from a rendered page",
		Long: `Sourcepick stamps every JSX element with the file, line and component that
produced it, injects a picker runtime into the application entry point and relays
selections from the running page back to a host.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration file (default sourcepick.yaml when present)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFlag)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
