package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"collection-pricer/core/reconcile"
	"collection-pricer/feature/pricing"

	"github.com/spf13/cobra"
)

var (
	// Flags for the prices lookup command
	lookupQuery pricing.Query
	lookupJSON  bool
)

// pricesCmd is the parent command for interactive price operations.
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Interactive price lookups",
}

// pricesLookupCmd resolves one card without touching the inventory.
var pricesLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve the price of a single card",
	Long: `Resolves the price of a single card through the configured sources.

Examples:
  prices lookup --name Charizard --set "Base Set" --rarity "Holo Rare"
  prices lookup --card-id base1-4 --set "Base Set" --quantity 2 --condition LP
  prices lookup --name Charizard --manual 250`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		quote, err := rt.pricing.Lookup(ctx, lookupQuery)
		if errors.Is(err, pricing.ErrNotConfigured) {
			return fmt.Errorf("cannot look up prices: %w", err)
		}
		if err != nil {
			return err
		}

		if lookupJSON {
			data, err := json.MarshalIndent(quote, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		res := quote.Resolution
		fmt.Println("\n=== Price ===")
		fmt.Printf("Card: %s (%s)\n", quote.Item.Name, quote.Item.SetName)
		fmt.Printf("Price: %s\n", quote.Formatted)
		fmt.Printf("Total: %s (x%d, %s)\n",
			reconcile.FormatMoney(quote.Total, rt.pricing.Currency()), quote.Item.Quantity, quote.Item.Condition)
		fmt.Printf("Method: %s\n", res.Method)
		fmt.Printf("Confidence: %.2f\n", res.Confidence)
		fmt.Printf("Reason: %s\n", res.Reason)
		for _, o := range res.Observations {
			fmt.Printf("  - %s: %s (weight %.2f, %d samples)\n",
				o.Source, reconcile.FormatMoney(o.Price, rt.pricing.Currency()), o.Weight, o.Samples)
		}
		return nil
	},
}

func init() {
	f := pricesLookupCmd.Flags()
	f.StringVar(&lookupQuery.Name, "name", "", "Card name")
	f.StringVar(&lookupQuery.Set, "set", "", "Set name")
	f.StringVar(&lookupQuery.Rarity, "rarity", "", "Rarity, used to pick between catalog matches")
	f.StringVar(&lookupQuery.CardID, "card-id", "", "Catalog card ID, skips the search")
	f.StringVar(&lookupQuery.SetID, "set-id", "", "Catalog set ID, skips the set search")
	f.IntVar(&lookupQuery.Quantity, "quantity", 1, "Copies, used for the total")
	f.StringVar(&lookupQuery.Condition, "condition", "", "Condition (NM, LP, PL, DMG)")
	f.Float64Var(&lookupQuery.Manual, "manual", 0, "Manual override price")
	f.BoolVar(&lookupJSON, "json", false, "Print the full quote as JSON")

	pricesCmd.AddCommand(pricesLookupCmd)
	RootCmd.AddCommand(pricesCmd)
}
