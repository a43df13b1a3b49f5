package match

import (
	"testing"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPO() *model.PurchaseOrder {
	return &model.PurchaseOrder{
		Number:           "PO-2024-001",
		VendorID:         "V001",
		ExpectedAmount:   decimal.NewFromInt(1000),
		TolerancePercent: decimal.NewFromInt(10),
		Status:           model.POActive,
		Lines: []model.OrderLine{
			{Description: "Widget A", Quantity: decimal.NewFromInt(6), UnitPrice: decimal.RequireFromString("166.67")},
		},
	}
}

func testInvoice(total string, lineQty int64) *model.ExtractedInvoice {
	return &model.ExtractedInvoice{
		VendorName:    model.Field{Value: "Acme Corp", Confidence: model.ConfidenceHigh},
		InvoiceNumber: model.Field{Value: "INV-1001", Confidence: model.ConfidenceHigh},
		PONumber:      model.Field{Value: "PO-2024-001", Confidence: model.ConfidenceHigh},
		TotalAmount:   model.AmountField{Value: decimal.RequireFromString(total), Confidence: model.ConfidenceHigh},
		Lines: []model.InvoiceLine{
			{Description: "Widget A", Quantity: decimal.NewFromInt(lineQty)},
		},
	}
}

func receiptsOf(qtys ...int64) []model.GoodsReceipt {
	receipts := make([]model.GoodsReceipt, 0, len(qtys))
	for _, q := range qtys {
		receipts = append(receipts, model.GoodsReceipt{
			PONumber: "PO-2024-001",
			Lines:    []model.ReceiptLine{{Description: "Widget A", Quantity: decimal.NewFromInt(q)}},
		})
	}
	return receipts
}

func TestMatcher_ToleranceBoundary(t *testing.T) {
	m := NewMatcher()
	po := testPO()

	tests := []struct {
		name         string
		total        string
		wantValid    bool
		wantSeverity model.Severity
	}{
		{name: "exactly at tolerance passes", total: "1100.00", wantValid: true, wantSeverity: model.SeverityNone},
		{name: "just over tolerance warns", total: "1100.01", wantValid: false, wantSeverity: model.SeverityWarning},
		{name: "at double tolerance still warns", total: "1200.00", wantValid: false, wantSeverity: model.SeverityWarning},
		{name: "beyond double tolerance is critical", total: "1210.01", wantValid: false, wantSeverity: model.SeverityCritical},
		{name: "under expected within tolerance passes", total: "900.00", wantValid: true, wantSeverity: model.SeverityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := testInvoice(tt.total, 6)
			twoWay, _, _ := m.Match(inv, po, receiptsOf(6))
			assert.Equal(t, tt.wantValid, twoWay.Valid)
			assert.Equal(t, tt.wantSeverity, twoWay.Severity)
		})
	}
}

func TestMatcher_ThreeWayAggregatesReceipts(t *testing.T) {
	m := NewMatcher()
	po := testPO()

	// Two partial shipments of 3 sum to 6 before comparison
	inv := testInvoice("1000", 6)
	_, threeWay, anomalies := m.Match(inv, po, receiptsOf(3, 3))
	assert.True(t, threeWay.Valid)
	assert.Empty(t, anomalies)

	// Invoicing 7 against 6 received fails the line
	inv = testInvoice("1000", 7)
	_, threeWay, anomalies = m.Match(inv, po, receiptsOf(3, 3))
	assert.False(t, threeWay.Valid)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyQuantityMismatch, anomalies[0].Kind)
	assert.Contains(t, anomalies[0].Detail, "Widget A")
}

func TestMatcher_OverReceiptFlagged(t *testing.T) {
	m := NewMatcher()
	po := testPO() // ordered 6

	// 8 received against 6 ordered: invoice line passes but over-receipt
	// produces an anomaly.
	inv := testInvoice("1000", 6)
	_, threeWay, anomalies := m.Match(inv, po, receiptsOf(5, 3))
	assert.True(t, threeWay.Valid)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyQuantityMismatch, anomalies[0].Kind)
	assert.Contains(t, anomalies[0].Detail, "exceeds ordered")
}

func TestMatcher_MissingPONumber(t *testing.T) {
	m := NewMatcher()

	inv := testInvoice("1000", 6)
	inv.PONumber = model.Field{}

	twoWay, threeWay, anomalies := m.Match(inv, nil, nil)
	assert.False(t, twoWay.Valid)
	assert.False(t, threeWay.Valid)
	assert.Equal(t, model.SeverityWarning, twoWay.Severity)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyMissingField, anomalies[0].Kind)
}

func TestMatcher_MissingTotalAmount(t *testing.T) {
	m := NewMatcher()

	// An absent total arrives as a zero amount with low confidence; it
	// must surface as a missing field, not as a mismatch against the PO.
	inv := testInvoice("1000", 6)
	inv.TotalAmount = model.AmountField{Confidence: model.ConfidenceLow}

	twoWay, threeWay, anomalies := m.Match(inv, testPO(), receiptsOf(6))
	assert.False(t, twoWay.Valid)
	assert.Equal(t, model.SeverityWarning, twoWay.Severity)
	// The 3-way check subsumes the 2-way, so it cannot pass either.
	assert.False(t, threeWay.Valid)

	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyMissingField, anomalies[0].Kind)
	assert.Equal(t, model.SeverityWarning, anomalies[0].Severity)
}

func TestMatcher_PONotFound(t *testing.T) {
	m := NewMatcher()

	inv := testInvoice("1000", 6)
	twoWay, threeWay, anomalies := m.Match(inv, nil, nil)
	assert.False(t, twoWay.Valid)
	assert.False(t, threeWay.Valid)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyPONotFound, anomalies[0].Kind)
	assert.Equal(t, model.SeverityCritical, anomalies[0].Severity)
}

func TestMatcher_InactivePO(t *testing.T) {
	m := NewMatcher()
	po := testPO()
	po.Status = model.POClosed

	inv := testInvoice("1000", 6)
	twoWay, threeWay, anomalies := m.Match(inv, po, receiptsOf(6))

	// Checks still run for audit completeness
	assert.True(t, twoWay.Valid)
	assert.True(t, threeWay.Valid)

	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyPOInactive, anomalies[0].Kind)
}

func TestMatcher_NoReceipts(t *testing.T) {
	m := NewMatcher()
	po := testPO()

	inv := testInvoice("1000", 6)
	twoWay, threeWay, anomalies := m.Match(inv, po, nil)
	assert.True(t, twoWay.Valid)
	assert.False(t, threeWay.Valid)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyQuantityMismatch, anomalies[0].Kind)
}

func TestMatcher_Idempotent(t *testing.T) {
	m := NewMatcher()
	po := testPO()
	inv := testInvoice("1150", 7)
	receipts := receiptsOf(3, 3)

	two1, three1, anoms1 := m.Match(inv, po, receipts)
	two2, three2, anoms2 := m.Match(inv, po, receipts)

	assert.Equal(t, two1, two2)
	assert.Equal(t, three1, three2)
	assert.Equal(t, anoms1, anoms2)
}
