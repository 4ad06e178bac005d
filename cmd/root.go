package cmd

import (
	"fmt"
	"os"

	"vocab-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where config.LoadConfig looks for the .env file.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vocab-manager",
	Short: "Vocabulary Manager Service",
	Long: `Vocabulary Manager keeps the words a user learns together with their
translations, definitions, examples, relations, collections and exercise sets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level prints ISO8601 timestamps for CLI users.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "Directory holding the .env file")
}
