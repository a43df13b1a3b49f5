package main

import (
	"fmt"
	"time"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"

	"github.com/spf13/cobra"
)

func decisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Browse recorded invoice decisions",
		Long:  `List and inspect the audit trail of decided invoices.`,
	}

	// Subcommands
	cmd.AddCommand(decisionsListCmd())
	cmd.AddCommand(decisionsShowCmd())

	return cmd
}

func decisionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded decisions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			outcome, _ := cmd.Flags().GetString("outcome")
			limit, _ := cmd.Flags().GetInt("limit")
			sinceDays, _ := cmd.Flags().GetInt("since-days")

			filter := service.DecisionFilter{Limit: limit}
			if outcome != "" {
				filter.Outcome = model.Outcome(outcome)
			}
			if sinceDays > 0 {
				since := time.Now().AddDate(0, 0, -sinceDays)
				filter.Since = &since
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			decisions, err := store.ListDecisions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list decisions: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderDecisionList(decisions))
			return nil
		},
	}

	cmd.Flags().String("outcome", "", "Filter by outcome (auto_approve, pay_early, needs_review, rejected)")
	cmd.Flags().Int("limit", 50, "Maximum number of decisions to show")
	cmd.Flags().Int("since-days", 0, "Only show decisions from the last N days")

	return cmd
}

func decisionsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <invoice-number|decision-id>",
		Short: "Show one decision in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			asJSON, _ := cmd.Flags().GetBool("json")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			// Try the invoice number first; fall back to the decision ID.
			decision, err := store.GetDecisionByInvoiceNumber(ctx, args[0])
			if err != nil {
				decision, err = store.GetDecision(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("no decision found for %q: %w", args[0], err)
			}

			return printDecision(cmd.OutOrStdout(), decision, asJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print the decision as JSON")

	return cmd
}
