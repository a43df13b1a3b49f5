package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity ranks how serious a validation finding or anomaly is.
type Severity string

// Severity levels, least to most serious.
const (
	SeverityNone     Severity = "none"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityCritical: 3,
}

// Rank returns the ordering value of a severity; unknown severities rank
// lowest.
func (s Severity) Rank() int {
	return severityRank[s]
}

// MaxSeverity returns the more serious of two severities.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// ValidationResult is the outcome of a single validation check.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// AnomalyKind identifies the category of a detected problem.
type AnomalyKind string

// Anomaly kinds.
const (
	AnomalyMissingField     AnomalyKind = "missing_field"
	AnomalyVendorUnknown    AnomalyKind = "vendor_unknown"
	AnomalyAmountMismatch   AnomalyKind = "amount_mismatch"
	AnomalyQuantityMismatch AnomalyKind = "quantity_mismatch"
	AnomalyPONotFound       AnomalyKind = "po_not_found"
	AnomalyPOInactive       AnomalyKind = "po_inactive"
	AnomalyDuplicateInvoice AnomalyKind = "duplicate_invoice"
)

// Anomaly is a single detected problem with an invoice.
type Anomaly struct {
	Kind         AnomalyKind `json:"kind"`
	Severity     Severity    `json:"severity"`
	Detail       string      `json:"detail"`
	AutoResolved bool        `json:"auto_resolved"`
}

// ResolutionStatus is the terminal state of the discrepancy-resolution
// state machine for one anomaly.
type ResolutionStatus string

const (
	// ResolutionDetected means no resolution has been attempted yet.
	ResolutionDetected ResolutionStatus = "detected"
	// ResolutionAutoCorrected means the system corrected the discrepancy
	// within policy and processing may proceed.
	ResolutionAutoCorrected ResolutionStatus = "auto_corrected"
	// ResolutionOutreachDrafted means a vendor-facing message was drafted;
	// dispatch is an external collaborator.
	ResolutionOutreachDrafted ResolutionStatus = "outreach_drafted"
	// ResolutionEscalated means the anomaly requires human review.
	ResolutionEscalated ResolutionStatus = "escalated"
)

// ResolvedAnomaly pairs an anomaly with its resolution.
type ResolvedAnomaly struct {
	Anomaly         Anomaly          `json:"anomaly"`
	Status          ResolutionStatus `json:"status"`
	Action          string           `json:"action"`
	OutreachMessage string           `json:"outreach_message,omitempty"`
	CorrectedAmount *decimal.Decimal `json:"corrected_amount,omitempty"`
}

// Unresolved reports whether the anomaly still requires attention.
// Auto-corrected anomalies are considered handled.
func (r ResolvedAnomaly) Unresolved() bool {
	return r.Status != ResolutionAutoCorrected
}

// PaymentRecommendation is the payment optimizer's advice for one invoice.
type PaymentRecommendation struct {
	Terms           string          `json:"terms"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountDate    time.Time       `json:"discount_date"`
	DueDate         time.Time       `json:"due_date"`
	OptimalPayDate  time.Time       `json:"optimal_payment_date"`
	APR             float64         `json:"apr"`
	Savings         decimal.Decimal `json:"potential_savings"`
	PayEarly        bool            `json:"pay_early"`
	Reasoning       string          `json:"reasoning"`
}

// Outcome is the final disposition of a decision run.
type Outcome string

// Decision outcomes.
const (
	OutcomeAutoApprove Outcome = "auto_approve"
	OutcomePayEarly    Outcome = "pay_early"
	OutcomeNeedsReview Outcome = "needs_review"
	OutcomeRejected    Outcome = "rejected"
)

// AuditEntry records one pipeline step for explainability. Entries are
// appended in invocation order.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Step      string    `json:"step"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
}

// Validations groups the per-check results for serialization.
type Validations struct {
	Vendor   ValidationResult `json:"vendor"`
	TwoWay   ValidationResult `json:"po"`
	ThreeWay ValidationResult `json:"three_way"`
}

// Decision is the aggregate, auditable result of one decision run. Its
// outcome is a pure function of the constituent results and anomalies.
type Decision struct {
	CreatedAt     time.Time              `json:"created_at"`
	ID            string                 `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	Success       bool                   `json:"success"`
	Extracted     ExtractedInvoice       `json:"extracted_data"`
	Checks        Validations            `json:"validations"`
	Anomalies     []ResolvedAnomaly      `json:"anomalies"`
	Payment       *PaymentRecommendation `json:"payment_recommendation,omitempty"`
	Outcome       Outcome                `json:"outcome"`
	AuditTrail    []AuditEntry           `json:"audit_trail"`
}

// HighestSeverity returns the maximum severity across unresolved anomalies.
func (d *Decision) HighestSeverity() Severity {
	highest := SeverityNone
	for _, ra := range d.Anomalies {
		if ra.Unresolved() {
			highest = MaxSeverity(highest, ra.Anomaly.Severity)
		}
	}
	return highest
}
