package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"vocab-manager/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunSweep bool
	yesConfirm  bool
)

// sweepCmd deletes shared word children that no word references any more.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete orphaned translations, definitions, tags and other shared children",
	Long: `Plans the orphan sweep of every shared vocabulary table, prints the report
and deletes the orphans after confirmation.

Examples:
  # Report only
  sweep --dry-run

  # Delete with interactive confirmation
  sweep

  # Delete with auto-confirm (non-interactive)
  sweep --yes`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVar(&dryRunSweep, "dry-run", false, "Report orphans without deleting them")
	sweepCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletion (non-interactive)")
	RootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Info("Planning orphan sweep...")
	plan, err := a.words.Sweep(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to plan sweep: %w", err)
	}
	printSweepReport(a.log, plan)

	if plan.Total() == 0 {
		a.log.Info("No orphans found.")
		return nil
	}
	if dryRunSweep {
		a.log.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if !confirmDestructiveAction() {
		a.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	report, err := a.words.Sweep(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to sweep: %w", err)
	}
	a.log.Info("Successfully deleted orphans", zap.Int("count", report.Total()))
	return nil
}

// printSweepReport logs the orphan count per entity with a sample of ids.
func printSweepReport(l *zap.Logger, report *reconcile.SweepReport) {
	entities := make([]string, 0, len(report.Deleted))
	for entity := range report.Deleted {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	l.Info("Sweep report", zap.Int("total_orphans", report.Total()))
	for _, entity := range entities {
		ids := report.Deleted[entity]
		maxShow := min(len(ids), 5)
		l.Info("Orphans",
			zap.String("entity", entity),
			zap.Int("count", len(ids)),
			zap.Uints("sample_ids", ids[:maxShow]),
		)
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
