package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"collection-pricer/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd runs every health check and prints a summary.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the pricer's database, storage and sources",
	Long: `Checks that the pricer tables hold every expected column, that the durable
bucket exists when object storage is in use, and that a price source is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()
		svc := rt.health

		fmt.Println("\n=== Schema ===")
		if report, err := svc.CheckSchema(); err != nil {
			fmt.Printf("Error: %v\n", err)
		} else {
			data, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(data))
		}

		fmt.Println("\n=== Storage ===")
		report, err := svc.CheckStorage(ctx)
		switch {
		case errors.Is(err, integrity.ErrNoStorage):
			fmt.Println("Skipped: durable tier is not object storage")
		case err != nil:
			fmt.Printf("Error: %v\n", err)
		default:
			if !report.Exists && fixFlag {
				if err := svc.FixStorage(ctx); err != nil {
					return fmt.Errorf("failed to create bucket: %w", err)
				}
				report.Status = "fixed"
			}
			fmt.Printf("Bucket: %s (%s)\n", report.Bucket, report.Status)
		}

		fmt.Println("\n=== Sources ===")
		sources := svc.CheckSources()
		fmt.Printf("Configured: %t\n", sources.Configured)
		fmt.Printf("Currency: %s\n", sources.Currency)
		if sources.Error != "" {
			fmt.Printf("Error: %s\n", sources.Error)
		}

		rt.logger.Info("Integrity check completed", zap.Bool("sources_configured", sources.Configured))
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the durable bucket when missing")
	RootCmd.AddCommand(integrityCmd)
}
