package cmd

import (
	"errors"
	"fmt"
	"time"

	"vocab-manager/core/config"
	"vocab-manager/core/middleware/auth"

	"github.com/spf13/cobra"
)

var (
	tokenUser uint
	tokenTTL  time.Duration
)

// tokenCmd issues a bearer token for local development.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development JWT for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.Server.JWTSecret == "" {
			return errors.New("SERVER_JWT_SECRET is not set")
		}
		if tokenUser == 0 {
			return errors.New("--user is required")
		}
		token, err := auth.GenerateToken(tokenUser, cfg.Server.JWTSecret, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().UintVar(&tokenUser, "user", 0, "User id placed in the token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	RootCmd.AddCommand(tokenCmd)
}
