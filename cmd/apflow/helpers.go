package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kinman1313/invoice-processor/internal/cli"
	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/config"
	"github.com/kinman1313/invoice-processor/internal/engine"
	"github.com/kinman1313/invoice-processor/internal/extract"
	"github.com/kinman1313/invoice-processor/internal/ingest"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"
	"github.com/kinman1313/invoice-processor/internal/storage"

	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open database at %s", dbPath), err)
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, common.NewUserError("database migration failed", err)
	}

	return store, nil
}

// engineConfig builds the decision policy from configuration, starting
// from the defaults.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if viper.IsSet("policy.fuzzy_threshold") {
		cfg.FuzzyThreshold = viper.GetFloat64("policy.fuzzy_threshold")
	}
	if viper.IsSet("policy.escalation_multiplier") {
		cfg.EscalationMultiplier = viper.GetFloat64("policy.escalation_multiplier")
	}
	if viper.IsSet("policy.hurdle_rate") {
		cfg.HurdleRate = viper.GetFloat64("policy.hurdle_rate")
	}
	return cfg
}

// newPipeline assembles the extraction-to-decision pipeline over a store.
func newPipeline(store service.Storage) *ingest.Pipeline {
	return &ingest.Pipeline{
		Extractor: extract.NewJSONExtractor(),
		Decider:   engine.NewWithConfig(store, engineConfig()),
		Store:     store,
	}
}

// printDecision writes a decision either as styled terminal output or as
// the canonical JSON document.
func printDecision(w io.Writer, decision *model.Decision, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(decision)
	}
	_, err := fmt.Fprintln(w, cli.RenderDecision(decision))
	return err
}
