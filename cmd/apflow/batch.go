package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Process every extracted invoice document in a directory",
		Long: `Run every .json document in a directory through the decision
pipeline, persisting each decision. Prints a summary of outcomes when done.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	handler := cli.NewInterruptHandler(cmd.OutOrStdout())
	ctx := handler.HandleInterrupts(cmd.Context())

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		docs = append(docs, filepath.Join(args[0], entry.Name()))
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No .json documents found"))
		return nil
	}

	pipeline := newPipeline(store)
	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetDescription("Processing invoices"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	outcomes := map[model.Outcome]int{}
	failed := 0
	for _, doc := range docs {
		if ctx.Err() != nil {
			break
		}
		decision, err := pipeline.ProcessFile(ctx, doc)
		if err != nil {
			failed++
			common.LogError(err, "Document failed", common.Fields{"file": filepath.Base(doc)})
		} else {
			outcomes[decision.Outcome]++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.TitleStyle.Render("Batch complete"))
	for _, outcome := range []model.Outcome{model.OutcomeAutoApprove, model.OutcomePayEarly, model.OutcomeNeedsReview, model.OutcomeRejected} {
		if outcomes[outcome] > 0 {
			fmt.Fprintf(out, "  %-14s %d\n", outcome, outcomes[outcome])
		}
	}
	if failed > 0 {
		fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%d document(s) failed", failed)))
	}
	if handler.WasInterrupted() {
		fmt.Fprintln(out, cli.FormatWarning("Batch interrupted before completion"))
	}

	return nil
}
