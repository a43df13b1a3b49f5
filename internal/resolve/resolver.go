// Package resolve classifies detected anomalies into auto-corrections,
// vendor outreach drafts, and human escalations.
package resolve

import (
	"fmt"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"
)

// Resolver applies the discrepancy-resolution policy. Each anomaly moves
// from detected to exactly one of auto_corrected, outreach_drafted, or
// escalated. Resolution is deterministic: the same anomalies always
// resolve the same way.
type Resolver struct{}

// NewResolver creates a resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve processes each anomaly independently. Drafted outreach is never
// dispatched here; dispatch is an external collaborator.
func (r *Resolver) Resolve(anomalies []model.Anomaly, inv *model.ExtractedInvoice, po *model.PurchaseOrder) []model.ResolvedAnomaly {
	resolved := make([]model.ResolvedAnomaly, 0, len(anomalies))
	for _, anomaly := range anomalies {
		resolved = append(resolved, r.resolveOne(anomaly, inv, po))
	}
	return resolved
}

func (r *Resolver) resolveOne(anomaly model.Anomaly, inv *model.ExtractedInvoice, po *model.PurchaseOrder) model.ResolvedAnomaly {
	switch anomaly.Kind {
	case model.AnomalyAmountMismatch:
		if anomaly.Severity == model.SeverityWarning && po != nil {
			// Within the escalation band: treat as rounding/tax variance
			// and proceed on the PO's expected amount.
			corrected := po.ExpectedAmount
			anomaly.AutoResolved = true
			return model.ResolvedAnomaly{
				Anomaly: anomaly,
				Status:  model.ResolutionAutoCorrected,
				Action: fmt.Sprintf("amount variance within policy; booked against PO expected amount %s",
					corrected),
				CorrectedAmount: &corrected,
			}
		}
		return r.draftOutreach(anomaly, inv, po)

	case model.AnomalyQuantityMismatch, model.AnomalyPONotFound, model.AnomalyPOInactive:
		return r.draftOutreach(anomaly, inv, po)

	case model.AnomalyVendorUnknown:
		// Unknown vendor implies unverifiable identity; never auto-correct.
		return model.ResolvedAnomaly{
			Anomaly: anomaly,
			Status:  model.ResolutionEscalated,
			Action:  "vendor identity cannot be verified; escalated to review queue",
		}

	default:
		return model.ResolvedAnomaly{
			Anomaly: anomaly,
			Status:  model.ResolutionEscalated,
			Action:  fmt.Sprintf("no automatic policy for %s; escalated to review queue", anomaly.Kind),
		}
	}
}

func (r *Resolver) draftOutreach(anomaly model.Anomaly, inv *model.ExtractedInvoice, po *model.PurchaseOrder) model.ResolvedAnomaly {
	msg := DraftOutreach(anomaly, inv, po)
	return model.ResolvedAnomaly{
		Anomaly:         anomaly,
		Status:          model.ResolutionOutreachDrafted,
		Action:          "vendor outreach drafted; dispatch pending",
		OutreachMessage: msg.Body,
	}
}

// DraftOutreach renders the deterministic vendor-facing message for an
// anomaly. Given the same anomaly fields it always produces the same text.
func DraftOutreach(anomaly model.Anomaly, inv *model.ExtractedInvoice, po *model.PurchaseOrder) service.OutreachMessage {
	vendorName := strings.TrimSpace(inv.VendorName.Value)
	if vendorName == "" {
		vendorName = "Supplier"
	}
	invoiceNumber := strings.TrimSpace(inv.InvoiceNumber.Value)
	if invoiceNumber == "" {
		invoiceNumber = "(unnumbered)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", vendorName)
	fmt.Fprintf(&b, "While processing invoice %s we found a discrepancy that prevents payment:\n\n", invoiceNumber)
	fmt.Fprintf(&b, "  %s\n\n", anomaly.Detail)

	switch anomaly.Kind {
	case model.AnomalyAmountMismatch:
		if po != nil {
			fmt.Fprintf(&b, "Our purchase order %s expects %s. Please send a corrected invoice or a credit note, or confirm the billed amount with a reference to the change order.\n",
				po.Number, po.ExpectedAmount)
		} else {
			b.WriteString("Please send a corrected invoice or confirm the billed amount.\n")
		}
	case model.AnomalyQuantityMismatch:
		b.WriteString("Please confirm the delivered quantities or adjust the invoice to match the goods received.\n")
	case model.AnomalyPONotFound:
		b.WriteString("Please confirm the purchase order reference on this invoice; we have no record of it.\n")
	case model.AnomalyPOInactive:
		b.WriteString("The referenced purchase order is closed. Please confirm with our procurement team before re-submitting.\n")
	default:
		b.WriteString("Please review the details above and respond with a correction.\n")
	}

	b.WriteString("\nRegards,\nAccounts Payable")

	return service.OutreachMessage{
		VendorName:    vendorName,
		InvoiceNumber: invoiceNumber,
		Subject:       fmt.Sprintf("Invoice %s: %s", invoiceNumber, anomaly.Kind),
		Body:          b.String(),
	}
}

// OverallSeverity is the maximum severity across anomalies that were not
// auto-corrected.
func OverallSeverity(resolved []model.ResolvedAnomaly) model.Severity {
	highest := model.SeverityNone
	for _, ra := range resolved {
		if ra.Unresolved() {
			highest = model.MaxSeverity(highest, ra.Anomaly.Severity)
		}
	}
	return highest
}
