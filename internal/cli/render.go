package cli

import (
	"fmt"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/model"
)

// outcomeStyle maps each outcome to a style that signals its weight.
func outcomeStyle(outcome model.Outcome) func(string) string {
	switch outcome {
	case model.OutcomeAutoApprove, model.OutcomePayEarly:
		return FormatSuccess
	case model.OutcomeNeedsReview:
		return FormatWarning
	case model.OutcomeRejected:
		return FormatError
	default:
		return FormatInfo
	}
}

func severityStyle(severity model.Severity) lipglossRenderer {
	switch severity {
	case model.SeverityCritical:
		return ErrorStyle.Render
	case model.SeverityWarning:
		return WarningStyle.Render
	default:
		return SubtleStyle.Render
	}
}

type lipglossRenderer func(...string) string

// RenderDecision renders one decision as a styled terminal report.
func RenderDecision(d *model.Decision) string {
	var b strings.Builder

	title := fmt.Sprintf("Invoice %s", orPlaceholder(d.InvoiceNumber, "(unnumbered)"))
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("decision %s · %s", d.ID, d.CreatedAt.Format("2006-01-02 15:04:05"))))
	b.WriteString("\n\n")

	b.WriteString(BoldStyle.Render("Outcome: "))
	b.WriteString(outcomeStyle(d.Outcome)(string(d.Outcome)))
	b.WriteString("\n\n")

	b.WriteString(BoldStyle.Render("Checks"))
	b.WriteString("\n")
	b.WriteString(renderCheck("vendor", d.Checks.Vendor))
	b.WriteString(renderCheck("2-way match", d.Checks.TwoWay))
	b.WriteString(renderCheck("3-way match", d.Checks.ThreeWay))

	if len(d.Anomalies) > 0 {
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render("Anomalies"))
		b.WriteString("\n")
		for _, ra := range d.Anomalies {
			b.WriteString(renderAnomaly(ra))
		}
	}

	if d.Payment != nil {
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render("Payment"))
		b.WriteString("\n")
		b.WriteString(renderPayment(d.Payment))
	}

	return b.String()
}

func renderCheck(label string, res model.ValidationResult) string {
	icon := FormatSuccess("")
	if !res.Valid {
		switch res.Severity {
		case model.SeverityCritical:
			icon = FormatError("")
		default:
			icon = FormatWarning("")
		}
	}
	line := fmt.Sprintf("  %s %s", icon, TableCellStyle.Render(label))
	if res.Message != "" {
		line += SubtleStyle.Render(res.Message)
	}
	return line + "\n"
}

func renderAnomaly(ra model.ResolvedAnomaly) string {
	render := severityStyle(ra.Anomaly.Severity)
	line := fmt.Sprintf("  %s [%s] %s",
		render(string(ra.Anomaly.Severity)),
		ra.Status,
		ra.Anomaly.Detail)
	if ra.CorrectedAmount != nil {
		line += SubtleStyle.Render(fmt.Sprintf(" (corrected to %s)", ra.CorrectedAmount.StringFixed(2)))
	}
	return line + "\n"
}

func renderPayment(rec *model.PaymentRecommendation) string {
	var b strings.Builder
	if rec.PayEarly {
		b.WriteString("  " + FormatSuccess(fmt.Sprintf("pay by %s to save %s (APR %.1f%%)",
			rec.OptimalPayDate.Format("2006-01-02"), rec.Savings.StringFixed(2), rec.APR*100)))
	} else {
		b.WriteString("  " + FormatInfo(fmt.Sprintf("pay on due date %s",
			rec.DueDate.Format("2006-01-02"))))
	}
	b.WriteString("\n")
	if rec.Reasoning != "" {
		b.WriteString(SubtleStyle.Render("  " + rec.Reasoning))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDecisionList renders a compact table of decisions.
func RenderDecisionList(decisions []model.Decision) string {
	if len(decisions) == 0 {
		return SubtleStyle.Render("No decisions recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %-14s %-10s %s", "INVOICE", "OUTCOME", "ANOMALIES", "CREATED")))
	b.WriteString("\n")
	for _, d := range decisions {
		b.WriteString(fmt.Sprintf("%-20s %-14s %-10d %s\n",
			orPlaceholder(d.InvoiceNumber, "(unnumbered)"),
			d.Outcome,
			len(d.Anomalies),
			d.CreatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// RenderVendors renders the vendor reference table.
func RenderVendors(vendors []model.Vendor) string {
	if len(vendors) == 0 {
		return SubtleStyle.Render("No vendors configured.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-8s %-28s %-16s %-14s %s", "ID", "NAME", "CATEGORY", "TERMS", "STATUS")))
	b.WriteString("\n")
	for _, v := range vendors {
		status := string(v.Status)
		if !v.IsActive() {
			status = WarningStyle.Render(status)
		}
		b.WriteString(fmt.Sprintf("%-8s %-28s %-16s %-14s %s\n",
			v.ID, v.Name, v.Category, v.DefaultTerms, status))
	}
	return b.String()
}

// RenderPurchaseOrders renders the purchase-order reference table.
func RenderPurchaseOrders(orders []model.PurchaseOrder) string {
	if len(orders) == 0 {
		return SubtleStyle.Render("No purchase orders configured.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-14s %-8s %12s %10s %s", "NUMBER", "VENDOR", "EXPECTED", "TOL%", "STATUS")))
	b.WriteString("\n")
	for _, po := range orders {
		status := string(po.Status)
		if po.Status != model.POActive {
			status = SubtleStyle.Render(status)
		}
		b.WriteString(fmt.Sprintf("%-14s %-8s %12s %10s %s\n",
			po.Number, po.VendorID, po.ExpectedAmount.StringFixed(2), po.TolerancePercent.String(), status))
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
