package main

import (
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage purchase-order reference data",
		Long:  `View and manage the purchase orders invoices are matched against.`,
	}

	// Subcommands
	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersAddCmd())
	cmd.AddCommand(ordersCloseCmd())

	return cmd
}

func ordersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			orders, err := store.ListPurchaseOrders(ctx)
			if err != nil {
				return fmt.Errorf("failed to list purchase orders: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderPurchaseOrders(orders))
			return nil
		},
	}
}

func ordersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <number> <vendor-id> <expected-amount>",
		Short: "Add or update a purchase order",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			expected, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid expected amount %q: %w", args[2], err)
			}
			tolerance, _ := cmd.Flags().GetFloat64("tolerance")
			if tolerance < 0 || tolerance > 100 {
				return fmt.Errorf("invalid tolerance %v: must be between 0 and 100", tolerance)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			po := &model.PurchaseOrder{
				Number:           args[0],
				VendorID:         args[1],
				ExpectedAmount:   expected,
				TolerancePercent: decimal.NewFromFloat(tolerance),
				Status:           model.POActive,
			}
			if err := store.SavePurchaseOrder(ctx, po); err != nil {
				return fmt.Errorf("failed to save purchase order: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Saved %s: %s expected, ±%v%% tolerance", po.Number, expected.StringFixed(2), tolerance)))
			return nil
		},
	}

	cmd.Flags().Float64("tolerance", 10, "Allowed amount deviation in percent")

	return cmd
}

func ordersCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <number>",
		Short: "Close a purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ClosePurchaseOrder(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to close %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Closed purchase order %s", args[0])))
			return nil
		},
	}
}
