package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/ingest"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch an inbox directory and process dropped documents",
		Long: `Watch <directory>/inbox for extracted-invoice JSON documents.
Each document is decided and persisted, then moved to <directory>/processed
or <directory>/failed. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().String("dir", "", "Root directory for inbox/processed/failed (default: current directory)")
	_ = viper.BindPFlag("watch.dir", cmd.Flags().Lookup("dir"))

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	handler := cli.NewInterruptHandler(cmd.OutOrStdout())
	ctx := handler.HandleInterrupts(cmd.Context())

	dir := viper.GetString("watch.dir")
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	watcher := ingest.NewWatcher(newPipeline(store), dir)
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Watching %s; drop extracted invoices there to process them", watcher.InboxDir())))

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher stopped: %w", err)
	}
	return nil
}
