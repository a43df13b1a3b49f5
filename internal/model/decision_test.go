package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMaxSeverity(t *testing.T) {
	tests := []struct {
		name string
		a    Severity
		b    Severity
		want Severity
	}{
		{name: "none vs warning", a: SeverityNone, b: SeverityWarning, want: SeverityWarning},
		{name: "critical vs warning", a: SeverityCritical, b: SeverityWarning, want: SeverityCritical},
		{name: "info vs info", a: SeverityInfo, b: SeverityInfo, want: SeverityInfo},
		{name: "unknown ranks lowest", a: Severity("bogus"), b: SeverityInfo, want: SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxSeverity(tt.a, tt.b))
		})
	}
}

func TestDecisionHighestSeverity(t *testing.T) {
	d := &Decision{
		Anomalies: []ResolvedAnomaly{
			{Anomaly: Anomaly{Kind: AnomalyAmountMismatch, Severity: SeverityCritical}, Status: ResolutionAutoCorrected},
			{Anomaly: Anomaly{Kind: AnomalyQuantityMismatch, Severity: SeverityWarning}, Status: ResolutionOutreachDrafted},
		},
	}

	// Auto-corrected anomalies do not count toward overall severity.
	assert.Equal(t, SeverityWarning, d.HighestSeverity())

	d.Anomalies = append(d.Anomalies, ResolvedAnomaly{
		Anomaly: Anomaly{Kind: AnomalyVendorUnknown, Severity: SeverityCritical},
		Status:  ResolutionEscalated,
	})
	assert.Equal(t, SeverityCritical, d.HighestSeverity())
}

func TestTotalReceivedAggregatesPartialShipments(t *testing.T) {
	receipts := []GoodsReceipt{
		{
			PONumber: "PO-2024-001",
			Lines: []ReceiptLine{
				{Description: "Widget A", Quantity: decimal.NewFromInt(3)},
				{Description: "Widget B", Quantity: decimal.NewFromInt(1)},
			},
		},
		{
			PONumber: "PO-2024-001",
			Lines: []ReceiptLine{
				{Description: "widget a", Quantity: decimal.NewFromInt(3)},
			},
		},
	}

	assert.True(t, TotalReceived(receipts, "WIDGET A").Equal(decimal.NewFromInt(6)))
	assert.True(t, TotalReceived(receipts, "Widget B").Equal(decimal.NewFromInt(1)))
	assert.True(t, TotalReceived(receipts, "Widget C").IsZero())
}

func TestPurchaseOrderHelpers(t *testing.T) {
	po := &PurchaseOrder{
		Number:           "PO-2024-001",
		ExpectedAmount:   decimal.NewFromInt(1000),
		TolerancePercent: decimal.NewFromInt(10),
		Lines: []OrderLine{
			{Description: "Widget A", Quantity: decimal.NewFromInt(5)},
		},
	}

	assert.True(t, po.ToleranceAmount().Equal(decimal.NewFromInt(100)))
	assert.NotNil(t, po.LineByDescription("  widget a "))
	assert.Nil(t, po.LineByDescription("widget z"))
}

func TestFieldPresent(t *testing.T) {
	assert.False(t, Field{}.Present())
	assert.False(t, Field{Value: "   "}.Present())
	assert.True(t, Field{Value: "PO-2024-001", Confidence: ConfidenceHigh}.Present())
}

func TestAmountFieldPresent(t *testing.T) {
	assert.True(t, AmountField{Value: decimal.NewFromInt(5000), Confidence: ConfidenceHigh}.Present())
	// A genuine zero total is distinguishable from a failed extraction
	// only by the confidence the extractor attached to it.
	assert.True(t, AmountField{Confidence: ConfidenceMedium}.Present())
	assert.False(t, AmountField{Confidence: ConfidenceLow}.Present())
	assert.False(t, AmountField{}.Present())
}
