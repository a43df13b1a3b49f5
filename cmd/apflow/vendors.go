package main

import (
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/spf13/cobra"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Manage vendor reference data",
		Long:  `View and manage the approved-vendor list used for invoice validation.`,
	}

	// Subcommands
	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsAddCmd())
	cmd.AddCommand(vendorsStatusCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List approved vendors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vendors, err := store.ListVendors(ctx)
			if err != nil {
				return fmt.Errorf("failed to list vendors: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderVendors(vendors))
			return nil
		},
	}
}

func vendorsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or update a vendor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")
			terms, _ := cmd.Flags().GetString("terms")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			vendor := &model.Vendor{
				ID:           args[0],
				Name:         args[1],
				Category:     category,
				DefaultTerms: terms,
				Status:       model.VendorActive,
			}
			if err := store.SaveVendor(ctx, vendor); err != nil {
				return fmt.Errorf("failed to save vendor: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved vendor %s (%s)", vendor.Name, vendor.ID)))
			return nil
		},
	}

	cmd.Flags().String("category", "", "Vendor category (e.g. supplies, software)")
	cmd.Flags().String("terms", "", `Default payment terms (e.g. "2/10 Net 30")`)

	return cmd
}

func vendorsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Change a vendor's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var status model.VendorStatus
			switch args[1] {
			case string(model.VendorActive):
				status = model.VendorActive
			case string(model.VendorInactive):
				status = model.VendorInactive
			default:
				return fmt.Errorf("invalid status %q: must be active or inactive", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SetVendorStatus(ctx, args[0], status); err != nil {
				return fmt.Errorf("failed to update vendor %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Vendor %s is now %s", args[0], status)))
			return nil
		},
	}
}
