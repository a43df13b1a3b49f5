package main

import (
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/refdata"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample vendor and purchase-order reference data",
		Long: `Populate the database with the sample vendors, purchase orders,
and goods receipts. Useful for demos and for trying the pipeline on a
fresh install. Vendors and purchase orders are upserted; receipts that
were already seeded are left alone.`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	vendors := refdata.SampleVendors()
	for i := range vendors {
		if err := store.SaveVendor(ctx, &vendors[i]); err != nil {
			return fmt.Errorf("failed to seed vendor %s: %w", vendors[i].ID, err)
		}
	}

	orders := refdata.SamplePurchaseOrders()
	for i := range orders {
		if err := store.SavePurchaseOrder(ctx, &orders[i]); err != nil {
			return fmt.Errorf("failed to seed purchase order %s: %w", orders[i].Number, err)
		}
	}

	// Receipts are append-only, so skip any that survived a previous seed.
	existing := map[string]bool{}
	for _, po := range orders {
		recorded, err := store.GetReceiptsByPO(ctx, po.Number)
		if err != nil {
			return fmt.Errorf("failed to read receipts for %s: %w", po.Number, err)
		}
		for _, r := range recorded {
			existing[r.ID] = true
		}
	}

	receipts := refdata.SampleReceipts()
	seeded := 0
	for i := range receipts {
		if existing[receipts[i].ID] {
			continue
		}
		if err := store.SaveGoodsReceipt(ctx, &receipts[i]); err != nil {
			return fmt.Errorf("failed to seed receipt %s: %w", receipts[i].ID, err)
		}
		seeded++
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Seeded %d vendors, %d purchase orders, %d goods receipts",
		len(vendors), len(orders), seeded)))
	return nil
}
