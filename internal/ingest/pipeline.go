// Package ingest runs extracted-invoice documents through the decision
// pipeline, either one at a time or from a watched inbox directory.
package ingest

import (
	"context"
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"
)

// Decider runs the decision pipeline for one extracted invoice.
type Decider interface {
	Decide(ctx context.Context, inv *model.ExtractedInvoice) (*model.Decision, error)
}

// Pipeline wires extraction, decisioning, and persistence together. It is
// the shared core behind the process, batch, and watch commands.
type Pipeline struct {
	Extractor service.Extractor
	Decider   Decider
	Store     service.Storage
}

// ProcessFile extracts a document, decides it, and persists the decision.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*model.Decision, error) {
	inv, err := p.Extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	decision, err := p.Decider.Decide(ctx, inv)
	if err != nil {
		return nil, err
	}

	if p.Store != nil {
		if err := p.Store.SaveDecision(ctx, decision); err != nil {
			return nil, fmt.Errorf("persisting decision for %s: %w", path, err)
		}
	}

	return decision, nil
}
