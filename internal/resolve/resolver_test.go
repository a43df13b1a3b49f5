package resolve

import (
	"testing"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *model.ExtractedInvoice {
	return &model.ExtractedInvoice{
		VendorName:    model.Field{Value: "Acme Corp", Confidence: model.ConfidenceHigh},
		InvoiceNumber: model.Field{Value: "INV-1001", Confidence: model.ConfidenceHigh},
		PONumber:      model.Field{Value: "PO-2024-001", Confidence: model.ConfidenceHigh},
	}
}

func testPO() *model.PurchaseOrder {
	return &model.PurchaseOrder{
		Number:           "PO-2024-001",
		VendorID:         "V001",
		ExpectedAmount:   decimal.NewFromInt(1000),
		TolerancePercent: decimal.NewFromInt(10),
		Status:           model.POActive,
	}
}

func TestResolver_AmountMismatchWithinBandAutoCorrects(t *testing.T) {
	r := NewResolver()

	anomaly := model.Anomaly{
		Kind:     model.AnomalyAmountMismatch,
		Severity: model.SeverityWarning,
		Detail:   "invoice total 1150 deviates 150 from PO PO-2024-001 expected 1000",
	}

	resolved := r.Resolve([]model.Anomaly{anomaly}, testInvoice(), testPO())
	require.Len(t, resolved, 1)
	assert.Equal(t, model.ResolutionAutoCorrected, resolved[0].Status)
	assert.True(t, resolved[0].Anomaly.AutoResolved)
	require.NotNil(t, resolved[0].CorrectedAmount)
	assert.True(t, resolved[0].CorrectedAmount.Equal(decimal.NewFromInt(1000)))
	assert.False(t, resolved[0].Unresolved())
}

func TestResolver_AmountMismatchBeyondBandDraftsOutreach(t *testing.T) {
	r := NewResolver()

	anomaly := model.Anomaly{
		Kind:     model.AnomalyAmountMismatch,
		Severity: model.SeverityCritical,
		Detail:   "invoice total 2500 deviates 1500 from PO PO-2024-001 expected 1000",
	}

	resolved := r.Resolve([]model.Anomaly{anomaly}, testInvoice(), testPO())
	require.Len(t, resolved, 1)
	assert.Equal(t, model.ResolutionOutreachDrafted, resolved[0].Status)
	assert.Contains(t, resolved[0].OutreachMessage, "Dear Acme Corp")
	assert.Contains(t, resolved[0].OutreachMessage, "INV-1001")
	assert.True(t, resolved[0].Unresolved())
}

func TestResolver_QuantityMismatchDraftsOutreach(t *testing.T) {
	r := NewResolver()

	anomaly := model.Anomaly{
		Kind:     model.AnomalyQuantityMismatch,
		Severity: model.SeverityWarning,
		Detail:   `line "Widget A": invoiced 7 but only 6 received`,
	}

	resolved := r.Resolve([]model.Anomaly{anomaly}, testInvoice(), testPO())
	require.Len(t, resolved, 1)
	assert.Equal(t, model.ResolutionOutreachDrafted, resolved[0].Status)
	assert.Contains(t, resolved[0].OutreachMessage, "delivered quantities")
}

func TestResolver_UnknownVendorAlwaysEscalates(t *testing.T) {
	r := NewResolver()

	anomaly := model.Anomaly{
		Kind:     model.AnomalyVendorUnknown,
		Severity: model.SeverityCritical,
		Detail:   `vendor "Random Vendor LLC" not found`,
	}

	resolved := r.Resolve([]model.Anomaly{anomaly}, testInvoice(), nil)
	require.Len(t, resolved, 1)
	assert.Equal(t, model.ResolutionEscalated, resolved[0].Status)
	assert.Empty(t, resolved[0].OutreachMessage)
}

func TestResolver_AnomaliesResolveIndependently(t *testing.T) {
	r := NewResolver()

	anomalies := []model.Anomaly{
		{Kind: model.AnomalyAmountMismatch, Severity: model.SeverityWarning},
		{Kind: model.AnomalyQuantityMismatch, Severity: model.SeverityWarning},
		{Kind: model.AnomalyVendorUnknown, Severity: model.SeverityCritical},
	}

	resolved := r.Resolve(anomalies, testInvoice(), testPO())
	require.Len(t, resolved, 3)
	assert.Equal(t, model.ResolutionAutoCorrected, resolved[0].Status)
	assert.Equal(t, model.ResolutionOutreachDrafted, resolved[1].Status)
	assert.Equal(t, model.ResolutionEscalated, resolved[2].Status)

	// Overall severity ignores the auto-corrected anomaly
	assert.Equal(t, model.SeverityCritical, OverallSeverity(resolved))
}

func TestResolver_DuplicateInvoiceEscalates(t *testing.T) {
	r := NewResolver()

	anomaly := model.Anomaly{
		Kind:     model.AnomalyDuplicateInvoice,
		Severity: model.SeverityCritical,
		Detail:   "a decision already exists for INV-1001",
	}

	resolved := r.Resolve([]model.Anomaly{anomaly}, testInvoice(), nil)
	require.Len(t, resolved, 1)
	assert.Equal(t, model.ResolutionEscalated, resolved[0].Status)
}

func TestDraftOutreach_Deterministic(t *testing.T) {
	anomaly := model.Anomaly{
		Kind:     model.AnomalyPONotFound,
		Severity: model.SeverityCritical,
		Detail:   `PO "PO-9999" not found`,
	}

	msg1 := DraftOutreach(anomaly, testInvoice(), nil)
	msg2 := DraftOutreach(anomaly, testInvoice(), nil)
	assert.Equal(t, msg1, msg2)
	assert.Contains(t, msg1.Body, "PO-9999")
	assert.Equal(t, "Invoice INV-1001: po_not_found", msg1.Subject)
}

func TestDraftOutreach_MissingFieldsFallBack(t *testing.T) {
	anomaly := model.Anomaly{Kind: model.AnomalyAmountMismatch, Severity: model.SeverityCritical}

	msg := DraftOutreach(anomaly, &model.ExtractedInvoice{}, nil)
	assert.Contains(t, msg.Body, "Dear Supplier")
	assert.Contains(t, msg.Subject, "(unnumbered)")
}
