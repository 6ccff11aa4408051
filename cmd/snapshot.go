package cmd

import (
	"fmt"

	"collection-pricer/core/reconcile"

	"github.com/spf13/cobra"
)

var snapshotLimit int

// snapshotCmd records the current collection value.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record the current collection value",
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

		snap, err := rt.valuelog.Record(ctx)
		if err != nil {
			return err
		}

		fmt.Println("\n=== Collection Value ===")
		fmt.Printf("Total: %s\n", reconcile.FormatMoney(snap.TotalValue, snap.Currency))
		fmt.Printf("Cards Owned: %d (%d distinct)\n", snap.CardsOwned, snap.DistinctOwned)
		fmt.Printf("Coverage: %.1f%%\n", snap.Coverage)
		fmt.Printf("Average Confidence: %.2f\n", snap.AvgConfidence)
		return nil
	},
}

// snapshotHistoryCmd lists recorded snapshots.
var snapshotHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded collection values, newest first",
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

		history, err := rt.valuelog.History(ctx, snapshotLimit)
		if err != nil {
			return err
		}
		for _, s := range history.Snapshots {
			fmt.Printf("%s  %12s  %5.1f%%  %d cards\n",
				s.TakenAt.Format("2006-01-02 15:04"),
				reconcile.FormatMoney(s.TotalValue, s.Currency),
				s.Coverage,
				s.CardsOwned)
		}
		return nil
	},
}

func init() {
	snapshotHistoryCmd.Flags().IntVar(&snapshotLimit, "limit", 30, "Maximum snapshots to list")

	snapshotCmd.AddCommand(snapshotHistoryCmd)
	RootCmd.AddCommand(snapshotCmd)
}
