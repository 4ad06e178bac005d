package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the image storage",
	Long:  `Checks that the database and the storage bucket agree on the stored images.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// imagesCmd represents the integrity images command
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Check and fix image rows and objects",
	Long: `Compares the image rows with the objects under images/ in the bucket.

Examples:
  # Report only
  integrity images

  # Delete rows without object and stray objects after confirmation
  integrity images --fix

  # Same without prompt
  integrity images --fix --yes`,
	RunE: runImageCheck,
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().BoolVar(&fixFlag, "fix", false, "Delete rows without object and stray objects")
	imagesCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the fix (non-interactive)")
}

func runImageCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if a.images == nil {
		return errors.New("image storage is not available")
	}

	a.log.Info("Checking image storage...")
	report, err := a.images.CheckImages(ctx)
	if err != nil {
		return fmt.Errorf("image check failed: %w", err)
	}

	if report.Clean() {
		a.log.Info("Image storage is intact.", zap.Int("checked", report.Checked))
		return nil
	}
	a.log.Warn("Image storage out of sync",
		zap.Int("checked", report.Checked),
		zap.Strings("missing", report.Missing),
		zap.Strings("stray", report.Stray),
	)

	if !fixFlag {
		a.log.Info("Run with --fix to repair.")
		return nil
	}
	if !confirmDestructiveAction() {
		a.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	if err := a.images.FixImages(ctx, report); err != nil {
		return fmt.Errorf("failed to fix image storage: %w", err)
	}
	a.log.Info("Image storage fixed successfully.")
	return nil
}
