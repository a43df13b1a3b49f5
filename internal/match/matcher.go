// Package match implements 2-way and 3-way invoice reconciliation.
package match

import (
	"fmt"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultEscalationMultiplier scales the PO tolerance to separate warning
// from critical amount mismatches. The exact multiplier is policy, not law;
// it is configuration shared with the discrepancy resolver.
const DefaultEscalationMultiplier = 2.0

// Matcher reconciles an extracted invoice against a purchase order and its
// goods receipts. Matching is read-only and idempotent.
type Matcher struct {
	// EscalationMultiplier widens the tolerance band inside which an
	// amount mismatch stays a warning.
	EscalationMultiplier float64
}

// NewMatcher creates a matcher with the default escalation multiplier.
func NewMatcher() *Matcher {
	return &Matcher{EscalationMultiplier: DefaultEscalationMultiplier}
}

// Match performs the 2-way and 3-way checks. The purchase order may be nil
// (not found); receipts are every receipt recorded against that PO.
func (m *Matcher) Match(inv *model.ExtractedInvoice, po *model.PurchaseOrder, receipts []model.GoodsReceipt) (twoWay, threeWay model.ValidationResult, anomalies []model.Anomaly) {
	if !inv.PONumber.Present() {
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyMissingField,
			Severity: model.SeverityWarning,
			Detail:   "invoice carries no PO number; matching skipped",
		})
		failed := model.ValidationResult{
			Valid:    false,
			Message:  "no PO number on invoice",
			Severity: model.SeverityWarning,
		}
		return failed, failed, anomalies
	}

	if po == nil {
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyPONotFound,
			Severity: model.SeverityCritical,
			Detail:   fmt.Sprintf("PO %q not found", inv.PONumber.Value),
		})
		failed := model.ValidationResult{
			Valid:    false,
			Message:  fmt.Sprintf("PO %q not found", inv.PONumber.Value),
			Severity: model.SeverityCritical,
		}
		return failed, failed, anomalies
	}

	if po.Status != model.POActive {
		// Checks still run so the audit trail stays complete; the anomaly
		// forces review downstream.
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyPOInactive,
			Severity: model.SeverityWarning,
			Detail:   fmt.Sprintf("PO %s has status %s", po.Number, po.Status),
		})
	}

	if inv.TotalAmount.Present() {
		var amountAnomaly *model.Anomaly
		twoWay, amountAnomaly = m.matchAmount(inv, po)
		if amountAnomaly != nil {
			anomalies = append(anomalies, *amountAnomaly)
		}
	} else {
		// An absent total is not a zero total; comparing it against the
		// PO would invent a mismatch.
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyMissingField,
			Severity: model.SeverityWarning,
			Detail:   "invoice carries no total amount; amount match skipped",
		})
		twoWay = model.ValidationResult{
			Valid:    false,
			Message:  "no total amount on invoice",
			Severity: model.SeverityWarning,
		}
	}

	threeWay, lineAnomalies := m.matchLines(inv, po, receipts, twoWay.Valid)
	anomalies = append(anomalies, lineAnomalies...)

	return twoWay, threeWay, anomalies
}

// matchAmount is the 2-way check: invoice total against PO expected amount
// within the PO's tolerance band.
func (m *Matcher) matchAmount(inv *model.ExtractedInvoice, po *model.PurchaseOrder) (model.ValidationResult, *model.Anomaly) {
	expected := po.ExpectedAmount
	tolerance := po.ToleranceAmount()
	deviation := inv.TotalAmount.Value.Sub(expected).Abs()

	if deviation.LessThanOrEqual(tolerance) {
		return model.ValidationResult{
			Valid: true,
			Message: fmt.Sprintf("invoice total %s within %s%% of PO %s expected %s",
				inv.TotalAmount.Value, po.TolerancePercent, po.Number, expected),
			Severity: model.SeverityNone,
		}, nil
	}

	multiplier := m.EscalationMultiplier
	if multiplier <= 0 {
		multiplier = DefaultEscalationMultiplier
	}
	escalationBand := tolerance.Mul(decimal.NewFromFloat(multiplier))

	severity := model.SeverityWarning
	if deviation.GreaterThan(escalationBand) {
		severity = model.SeverityCritical
	}

	detail := fmt.Sprintf("invoice total %s deviates %s from PO %s expected %s (tolerance %s)",
		inv.TotalAmount.Value, deviation, po.Number, expected, tolerance)

	return model.ValidationResult{
			Valid:    false,
			Message:  detail,
			Severity: severity,
		}, &model.Anomaly{
			Kind:     model.AnomalyAmountMismatch,
			Severity: severity,
			Detail:   detail,
		}
}

// matchLines is the 3-way check: each invoiced line quantity against the
// quantity received across all goods receipts for the PO. The result is
// valid only if every line passes and the 2-way check passed.
func (m *Matcher) matchLines(inv *model.ExtractedInvoice, po *model.PurchaseOrder, receipts []model.GoodsReceipt, twoWayValid bool) (model.ValidationResult, []model.Anomaly) {
	if len(receipts) == 0 {
		return model.ValidationResult{
			Valid:    false,
			Message:  fmt.Sprintf("no goods receipts recorded for PO %s", po.Number),
			Severity: model.SeverityWarning,
		}, []model.Anomaly{{
			Kind:     model.AnomalyQuantityMismatch,
			Severity: model.SeverityWarning,
			Detail:   fmt.Sprintf("nothing received against PO %s yet", po.Number),
		}}
	}

	var anomalies []model.Anomaly
	linesPass := true

	for _, line := range inv.Lines {
		received := model.TotalReceived(receipts, line.Description)

		// Over-receipt against the ordered quantity must be flagged even
		// when the invoiced quantity itself is covered.
		if ordered := po.LineByDescription(line.Description); ordered != nil && received.GreaterThan(ordered.Quantity) {
			anomalies = append(anomalies, model.Anomaly{
				Kind:     model.AnomalyQuantityMismatch,
				Severity: model.SeverityWarning,
				Detail: fmt.Sprintf("line %q: received %s exceeds ordered %s",
					line.Description, received, ordered.Quantity),
			})
		}

		if line.Quantity.GreaterThan(received) {
			linesPass = false
			anomalies = append(anomalies, model.Anomaly{
				Kind:     model.AnomalyQuantityMismatch,
				Severity: model.SeverityWarning,
				Detail: fmt.Sprintf("line %q: invoiced %s but only %s received",
					line.Description, line.Quantity, received),
			})
		}
	}

	switch {
	case linesPass && twoWayValid:
		return model.ValidationResult{
			Valid:    true,
			Message:  fmt.Sprintf("all %d invoice lines covered by goods receipts for PO %s", len(inv.Lines), po.Number),
			Severity: model.SeverityNone,
		}, anomalies
	case linesPass:
		return model.ValidationResult{
			Valid:    false,
			Message:  "line quantities covered but amount check failed",
			Severity: model.SeverityWarning,
		}, anomalies
	default:
		return model.ValidationResult{
			Valid:    false,
			Message:  fmt.Sprintf("invoiced quantities exceed goods received for PO %s", po.Number),
			Severity: model.SeverityWarning,
		}, anomalies
	}
}
