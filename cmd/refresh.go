package cmd

import (
	"encoding/json"
	"fmt"

	"collection-pricer/feature/refresh"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the refresh command
	restartRefresh bool
	ownedOnly      bool
	refreshAll     bool
)

// refreshCmd runs one checkpointed refresh invocation.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh inventory prices",
	Long: `Runs one refresh invocation: resumes the saved cursor or starts a new run,
prices up to REFRESH_BATCH_SIZE due rows and checkpoints.

Examples:
  # Next batch
  refresh

  # Discard the saved cursor and start over
  refresh --restart

  # Keep invoking until the run completes
  refresh --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		if err := rt.requireDB(); err != nil {
			return err
		}

		cfg := rt.cfg.Refresh
		if ownedOnly {
			cfg.OwnedOnly = true
		}
		scheduler := rt.scheduler
		if cfg != rt.cfg.Refresh {
			// Rebuild with the overridden config; dependencies are unchanged.
			scheduler = refresh.NewScheduler(cfg, rt.schedulerDeps())
		}

		var report *refresh.Report
		switch {
		case restartRefresh:
			report, err = scheduler.Restart(ctx)
			if err == nil && refreshAll && report.State != refresh.StateComplete {
				report, err = scheduler.RunToCompletion(ctx)
			}
		case refreshAll:
			report, err = scheduler.RunToCompletion(ctx)
		default:
			report, err = scheduler.Run(ctx)
		}
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		fmt.Println("\n=== Refresh ===")
		fmt.Printf("Run: %s\n", report.RunID)
		fmt.Printf("State: %s\n", report.State)
		fmt.Printf("Resumed: %t\n", report.Resumed)
		fmt.Printf("Processed: %d (run total %d)\n", report.Processed, report.RunProcessed)
		fmt.Printf("Resolved: %d\n", report.Resolved)
		fmt.Printf("Remaining: %d\n", report.Remaining)
		fmt.Printf("Scraped Budget Used: %d\n", report.BudgetUsed)
		fmt.Printf("Value Written: %s %s\n", report.ValueWritten, rt.pricing.Currency())
		fmt.Printf("Execution Time: %s\n", report.Took)

		rt.logger.Info("Refresh command completed",
			zap.String("run_id", report.RunID),
			zap.String("state", string(report.State)),
			zap.Int("processed", report.Processed),
		)
		return nil
	},
}

// refreshStatusCmd prints the persisted scheduler state.
var refreshStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved refresh cursor",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		if err := rt.requireDB(); err != nil {
			return err
		}

		status, err := rt.scheduler.Status(ctx)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&restartRefresh, "restart", false, "Discard the saved cursor and start a new run")
	refreshCmd.Flags().BoolVar(&ownedOnly, "owned-only", false, "Skip rows with quantity 0")
	refreshCmd.Flags().BoolVar(&refreshAll, "all", false, "Invoke repeatedly until the run completes")

	refreshCmd.AddCommand(refreshStatusCmd)
	RootCmd.AddCommand(refreshCmd)
}
