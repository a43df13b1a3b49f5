package main

import (
	"fmt"
	"time"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "Manage goods receipts",
		Long: `Record and inspect goods receipts. Receipts are append-only;
partial shipments show up as multiple receipts against the same purchase
order and are aggregated during 3-way matching.`,
	}

	// Subcommands
	cmd.AddCommand(receiptsListCmd())
	cmd.AddCommand(receiptsAddCmd())

	return cmd
}

func receiptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <po-number>",
		Short: "List goods receipts for a purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			receipts, err := store.GetReceiptsByPO(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list receipts for %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if len(receipts) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No goods receipts recorded."))
				return nil
			}
			for _, r := range receipts {
				fmt.Fprintf(out, "%s  %s\n", r.ReceivedAt.Format("2006-01-02"), cli.SubtleStyle.Render(r.ID))
				for _, line := range r.Lines {
					fmt.Fprintf(out, "    %s × %s\n", line.Quantity, line.Description)
				}
			}
			return nil
		},
	}
}

func receiptsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <po-number> <description> <quantity>",
		Short: "Record a goods receipt against a purchase order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			quantity, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[2], err)
			}
			if !quantity.IsPositive() {
				return fmt.Errorf("invalid quantity %s: must be positive", quantity)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Receipts reference a real PO so matching never aggregates
			// against phantom orders.
			if _, err := store.GetPurchaseOrder(ctx, args[0]); err != nil {
				return fmt.Errorf("purchase order %s: %w", args[0], err)
			}

			receipt := &model.GoodsReceipt{
				ID:         uuid.NewString(),
				PONumber:   args[0],
				ReceivedAt: time.Now().UTC(),
				Lines: []model.ReceiptLine{
					{Description: args[1], Quantity: quantity},
				},
			}
			if err := store.SaveGoodsReceipt(ctx, receipt); err != nil {
				return fmt.Errorf("failed to record receipt: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Recorded receipt %s: %s × %s against %s", receipt.ID, quantity, args[1], args[0])))
			return nil
		},
	}

	return cmd
}
