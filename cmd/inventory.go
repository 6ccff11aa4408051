package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"collection-pricer/feature/inventory"

	"github.com/spf13/cobra"
)

var (
	// Flags for the inventory import command
	importSetName   string
	importCatalogID string
)

// inventoryCmd is the parent command for inventory maintenance.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the card inventory",
}

// inventoryImportCmd loads a CSV export as one set.
var inventoryImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a set from a CSV export",
	Long: `Replaces the rows of a set with the content of a CSV file.

The header must contain Quantity, Condition, Name and Rarity. CardID,
ManualPriceGBP and MarketPriceGBP are optional. The set name defaults to the
file name without extension.

Examples:
  inventory import "Base Set.csv"
  inventory import jungle.csv --set Jungle --catalog-set base2`,
	Args: cobra.ExactArgs(1),
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

		path := args[0]
		setName := importSetName
		if setName == "" {
			setName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		result, err := inventory.NewImporter(rt.inventory, rt.logger.Named("import")).Import(ctx, setName, importCatalogID, f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Println("\n=== Import ===")
		fmt.Printf("Set: %s (id %d, position %d)\n", result.Set.Name, result.Set.ID, result.Set.Position)
		fmt.Printf("Rows: %d\n", result.Rows)
		fmt.Printf("Skipped: %d\n", result.Skipped)
		return nil
	},
}

func init() {
	inventoryImportCmd.Flags().StringVar(&importSetName, "set", "", "Set name (default: file name)")
	inventoryImportCmd.Flags().StringVar(&importCatalogID, "catalog-set", "", "Catalog set ID, skips the set search")

	inventoryCmd.AddCommand(inventoryImportCmd)
	RootCmd.AddCommand(inventoryCmd)
}
