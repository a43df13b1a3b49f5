// Package engine orchestrates the invoice decision pipeline: vendor
// validation and order matching run concurrently, discrepancy resolution
// consumes the matcher's anomalies, payment optimization runs on the
// invoice terms, and the aggregator joins everything into one auditable
// decision.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/match"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/payment"
	"github.com/kinman1313/invoice-processor/internal/resolve"
	"github.com/kinman1313/invoice-processor/internal/service"
	"github.com/kinman1313/invoice-processor/internal/validate"

	"github.com/google/uuid"
)

// Config holds the tunable policy knobs for a decision engine.
type Config struct {
	// FuzzyThreshold is the vendor validator's minimum similarity for a
	// near-miss suggestion.
	FuzzyThreshold float64
	// EscalationMultiplier widens the PO tolerance band inside which an
	// amount mismatch stays auto-correctable.
	EscalationMultiplier float64
	// HurdleRate is the annualized rate a discount APR must beat.
	HurdleRate float64
}

// DefaultConfig returns the default policy configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:       validate.DefaultFuzzyThreshold,
		EscalationMultiplier: match.DefaultEscalationMultiplier,
		HurdleRate:           payment.DefaultHurdleRate,
	}
}

// Engine runs decision pipelines against a reference-data store.
type Engine struct {
	store     service.Storage
	validator *validate.VendorValidator
	matcher   *match.Matcher
	optimizer *payment.Optimizer
	resolver  *resolve.Resolver
	now       func() time.Time
}

// New creates a decision engine with default configuration.
func New(store service.Storage) *Engine {
	return NewWithConfig(store, DefaultConfig())
}

// NewWithConfig creates a decision engine with custom policy configuration.
func NewWithConfig(store service.Storage, config Config) *Engine {
	return &Engine{
		store:     store,
		validator: &validate.VendorValidator{FuzzyThreshold: config.FuzzyThreshold},
		matcher:   &match.Matcher{EscalationMultiplier: config.EscalationMultiplier},
		optimizer: &payment.Optimizer{HurdleRate: config.HurdleRate},
		resolver:  resolve.NewResolver(),
		now:       time.Now,
	}
}

// Decide runs the full pipeline for one extracted invoice and returns a
// Decision. The only fatal condition is an unavailable or uninitialized
// reference-data snapshot; every other problem degrades into anomalies on
// the Decision itself. The invoice is never mutated. Persisting the
// Decision is the caller's job.
func (e *Engine) Decide(ctx context.Context, inv *model.ExtractedInvoice) (*model.Decision, error) {
	if inv == nil {
		return nil, common.ErrNoInvoice
	}

	snap, err := e.loadSnapshot(ctx, inv)
	if err != nil {
		return nil, err
	}

	trail := newAuditRecorder(e.now)

	// Vendor validation and order matching share no mutable state and
	// read disjoint reference data, so they run concurrently.
	var (
		vendorRes        model.ValidationResult
		twoWay, threeWay model.ValidationResult
		matchAnomalies   []model.Anomaly
		wg               sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		vendorRes = e.validator.Validate(inv.VendorName.Value, snap.vendors)
	}()
	go func() {
		defer wg.Done()
		twoWay, threeWay, matchAnomalies = e.matcher.Match(inv, snap.po, snap.receipts)
	}()
	wg.Wait()

	trail.record("vendor_validation",
		fmt.Sprintf("vendor %q (confidence %s)", inv.VendorName.Value, inv.VendorName.Confidence),
		vendorRes.Message)
	trail.record("order_matching",
		fmt.Sprintf("PO %q, invoice total %s", inv.PONumber.Value, inv.TotalAmount.Value),
		fmt.Sprintf("2-way: %s; 3-way: %s", twoWay.Message, threeWay.Message))

	anomalies := make([]model.Anomaly, 0, len(matchAnomalies)+2)
	anomalies = append(anomalies, matchAnomalies...)

	if !vendorRes.Valid && vendorRes.Severity == model.SeverityCritical {
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyVendorUnknown,
			Severity: model.SeverityCritical,
			Detail:   vendorRes.Message,
		})
	}

	if snap.duplicate != nil {
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyDuplicateInvoice,
			Severity: model.SeverityCritical,
			Detail: fmt.Sprintf("a decision for invoice %q already exists (%s, outcome %s)",
				inv.InvoiceNumber.Value, snap.duplicate.ID, snap.duplicate.Outcome),
		})
	}

	resolved := e.resolver.Resolve(anomalies, inv, snap.po)
	trail.record("discrepancy_resolution",
		fmt.Sprintf("%d anomalies", len(anomalies)),
		summarizeResolutions(resolved))

	rec, termsAnomaly := e.optimizer.Optimize(
		inv.PaymentTerms.Value, snap.defaultTerms(), inv.TotalAmount.Value, inv.InvoiceDate.Value)
	if termsAnomaly != nil {
		resolved = append(resolved, e.resolver.Resolve([]model.Anomaly{*termsAnomaly}, inv, snap.po)...)
	}
	trail.record("payment_optimization",
		fmt.Sprintf("terms %q", inv.PaymentTerms.Value),
		summarizeRecommendation(rec, termsAnomaly))

	outcome := aggregate(vendorRes, twoWay, threeWay, resolved, rec)
	trail.record("aggregation",
		fmt.Sprintf("vendor valid=%t, 2-way valid=%t, 3-way valid=%t, %d anomalies",
			vendorRes.Valid, twoWay.Valid, threeWay.Valid, len(resolved)),
		string(outcome))

	decision := &model.Decision{
		ID:            uuid.NewString(),
		InvoiceNumber: inv.InvoiceNumber.Value,
		CreatedAt:     e.now().UTC(),
		Success:       true,
		Extracted:     *inv,
		Checks: model.Validations{
			Vendor:   vendorRes,
			TwoWay:   twoWay,
			ThreeWay: threeWay,
		},
		Anomalies:  resolved,
		Payment:    rec,
		Outcome:    outcome,
		AuditTrail: trail.entries(),
	}

	slog.Info("Decision complete",
		"invoice", decision.InvoiceNumber,
		"outcome", decision.Outcome,
		"anomalies", len(decision.Anomalies))

	return decision, nil
}

func summarizeResolutions(resolved []model.ResolvedAnomaly) string {
	if len(resolved) == 0 {
		return "no discrepancies"
	}
	counts := map[model.ResolutionStatus]int{}
	for _, ra := range resolved {
		counts[ra.Status]++
	}
	return fmt.Sprintf("%d auto-corrected, %d outreach drafted, %d escalated",
		counts[model.ResolutionAutoCorrected],
		counts[model.ResolutionOutreachDrafted],
		counts[model.ResolutionEscalated])
}

func summarizeRecommendation(rec *model.PaymentRecommendation, anomaly *model.Anomaly) string {
	switch {
	case anomaly != nil:
		return anomaly.Detail
	case rec == nil:
		return "no parseable payment terms; no recommendation"
	case rec.PayEarly:
		return fmt.Sprintf("pay early on %s, savings %s (APR %.1f%%)",
			rec.OptimalPayDate.Format("2006-01-02"), rec.Savings, rec.APR*100)
	default:
		return fmt.Sprintf("pay on due date %s", rec.DueDate.Format("2006-01-02"))
	}
}
