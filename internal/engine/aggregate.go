package engine

import "github.com/kinman1313/invoice-processor/internal/model"

// aggregate applies the outcome policy. Rules are evaluated in order and
// the first match wins; the outcome is a pure function of its inputs.
func aggregate(vendorRes, twoWay, threeWay model.ValidationResult, resolved []model.ResolvedAnomaly, rec *model.PaymentRecommendation) model.Outcome {
	var (
		hasUnresolvedCritical bool
		hasUnresolved         bool
		poNotFound            bool
	)
	for _, ra := range resolved {
		if !ra.Unresolved() {
			continue
		}
		hasUnresolved = true
		if ra.Anomaly.Severity == model.SeverityCritical {
			hasUnresolvedCritical = true
		}
		if ra.Anomaly.Kind == model.AnomalyPONotFound {
			poNotFound = true
		}
	}

	// Rule 1: unresolved critical anomalies reject when the counterparty
	// itself is unverifiable, otherwise land in the review queue.
	if hasUnresolvedCritical {
		if !vendorRes.Valid || poNotFound {
			return model.OutcomeRejected
		}
		return model.OutcomeNeedsReview
	}

	// Rule 2: drafted outreach or escalations always need review.
	if hasUnresolved {
		return model.OutcomeNeedsReview
	}

	allPass := vendorRes.Valid && twoWay.Valid && threeWay.Valid

	// Rule 3: clean invoice with money on the table pays early.
	if allPass && rec != nil && rec.PayEarly && rec.Savings.IsPositive() {
		return model.OutcomePayEarly
	}

	// Rule 4: clean invoice, nothing to chase.
	if allPass {
		return model.OutcomeAutoApprove
	}

	// A failed check with no unresolved anomaly (e.g. an inactive vendor)
	// still cannot be auto-approved.
	return model.OutcomeNeedsReview
}
