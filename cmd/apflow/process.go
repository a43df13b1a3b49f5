package main

import (
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/outreach"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <document.json>",
		Short: "Process one extracted invoice document",
		Long: `Run a single extracted-invoice JSON document through validation,
matching, discrepancy resolution, and payment optimization, persist the
decision, and print it.`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().Bool("json", false, "Print the decision as JSON")
	cmd.Flags().Bool("dispatch-outreach", false, "Dispatch drafted vendor outreach after deciding")
	_ = viper.BindPFlag("outreach.dispatch", cmd.Flags().Lookup("dispatch-outreach"))

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	pipeline := newPipeline(store)
	decision, err := pipeline.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", args[0], err)
	}

	if viper.GetBool("outreach.dispatch") {
		sent, err := outreach.DispatchAll(ctx, outreach.NewLogDispatcher(), decision)
		if err != nil {
			return fmt.Errorf("outreach dispatch failed after %d messages: %w", sent, err)
		}
	}

	return printDecision(cmd.OutOrStdout(), decision, asJSON)
}
