package payment

import (
	"testing"
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var invoiceDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestOptimizer_StandardDiscountTerms(t *testing.T) {
	o := NewOptimizer()

	rec, anomaly := o.Optimize("2/10 Net 30", "", decimal.NewFromInt(1000), invoiceDate)
	require.NotNil(t, rec)
	require.Nil(t, anomaly)

	// APR = (2/98) * (365/20) ≈ 0.3724
	assert.InDelta(t, 0.3724, rec.APR, 0.005)
	assert.True(t, rec.PayEarly)
	assert.True(t, rec.Savings.Equal(decimal.RequireFromString("20.00")), "savings = %s", rec.Savings)
	assert.Equal(t, invoiceDate.AddDate(0, 0, 10), rec.OptimalPayDate)
	assert.Equal(t, invoiceDate.AddDate(0, 0, 30), rec.DueDate)
}

func TestOptimizer_TermFormatVariants(t *testing.T) {
	o := NewOptimizer()

	variants := []string{"2/10 Net 30", "2%/10 net 30", "2/10, Net 30", "2.5/15 Net 45"}
	for _, terms := range variants {
		t.Run(terms, func(t *testing.T) {
			rec, anomaly := o.Optimize(terms, "", decimal.NewFromInt(1000), invoiceDate)
			assert.NotNil(t, rec)
			assert.Nil(t, anomaly)
		})
	}
}

func TestOptimizer_BelowHurdlePaysOnDueDate(t *testing.T) {
	o := NewOptimizer()

	// 0.5/10 Net 60: APR = (0.5/99.5) * (365/50) ≈ 3.7%, below a 10% hurdle
	rec, anomaly := o.Optimize("0.5/10 Net 60", "", decimal.NewFromInt(1000), invoiceDate)
	require.NotNil(t, rec)
	require.Nil(t, anomaly)
	assert.False(t, rec.PayEarly)
	assert.True(t, rec.Savings.IsZero())
	assert.Equal(t, invoiceDate.AddDate(0, 0, 60), rec.OptimalPayDate)
}

func TestOptimizer_DegenerateTerms(t *testing.T) {
	o := NewOptimizer()

	// Net period inside the discount window must not divide
	rec, anomaly := o.Optimize("2/10 Net 5", "", decimal.NewFromInt(1000), invoiceDate)
	assert.Nil(t, rec)
	require.NotNil(t, anomaly)
	assert.Equal(t, model.AnomalyMissingField, anomaly.Kind)

	rec, anomaly = o.Optimize("2/10 Net 10", "", decimal.NewFromInt(1000), invoiceDate)
	assert.Nil(t, rec)
	assert.NotNil(t, anomaly)
}

func TestOptimizer_NetOnlyTerms(t *testing.T) {
	o := NewOptimizer()

	rec, anomaly := o.Optimize("Net 30", "", decimal.NewFromInt(1000), invoiceDate)
	require.NotNil(t, rec)
	require.Nil(t, anomaly)
	assert.False(t, rec.PayEarly)
	assert.True(t, rec.Savings.IsZero())
	assert.Equal(t, invoiceDate.AddDate(0, 0, 30), rec.DueDate)
}

func TestOptimizer_FallbackToVendorDefault(t *testing.T) {
	o := NewOptimizer()

	rec, anomaly := o.Optimize("see contract", "2/10 Net 30", decimal.NewFromInt(1000), invoiceDate)
	require.NotNil(t, rec)
	require.Nil(t, anomaly)
	assert.True(t, rec.PayEarly)
}

func TestOptimizer_NoParseableTerms(t *testing.T) {
	o := NewOptimizer()

	rec, anomaly := o.Optimize("", "", decimal.NewFromInt(1000), invoiceDate)
	assert.Nil(t, rec)
	assert.Nil(t, anomaly)

	rec, anomaly = o.Optimize("due on receipt", "monthly", decimal.NewFromInt(1000), invoiceDate)
	assert.Nil(t, rec)
	assert.Nil(t, anomaly)
}

func TestOptimizer_MissingInvoiceDate(t *testing.T) {
	o := NewOptimizer()

	// Discount terms without a date must not anchor a schedule to the
	// zero time.
	rec, anomaly := o.Optimize("2/10 Net 30", "", decimal.NewFromInt(1000), time.Time{})
	assert.Nil(t, rec)
	require.NotNil(t, anomaly)
	assert.Equal(t, model.AnomalyMissingField, anomaly.Kind)
	assert.Equal(t, model.SeverityWarning, anomaly.Severity)

	// Same for bare net terms.
	rec, anomaly = o.Optimize("Net 30", "", decimal.NewFromInt(1000), time.Time{})
	assert.Nil(t, rec)
	require.NotNil(t, anomaly)
	assert.Equal(t, model.AnomalyMissingField, anomaly.Kind)

	// No parseable terms and no date stays silent; there is nothing to
	// schedule and nothing to flag.
	rec, anomaly = o.Optimize("due on receipt", "", decimal.NewFromInt(1000), time.Time{})
	assert.Nil(t, rec)
	assert.Nil(t, anomaly)
}

func TestOptimizer_CustomHurdle(t *testing.T) {
	// With a 50% hurdle the 2/10 Net 30 APR (~37%) no longer justifies
	// early payment.
	o := &Optimizer{HurdleRate: 0.50}

	rec, anomaly := o.Optimize("2/10 Net 30", "", decimal.NewFromInt(1000), invoiceDate)
	require.NotNil(t, rec)
	require.Nil(t, anomaly)
	assert.False(t, rec.PayEarly)
	assert.True(t, rec.Savings.IsZero())
}

func TestOptimizer_Idempotent(t *testing.T) {
	o := NewOptimizer()

	rec1, _ := o.Optimize("2/10 Net 30", "", decimal.NewFromInt(1000), invoiceDate)
	rec2, _ := o.Optimize("2/10 Net 30", "", decimal.NewFromInt(1000), invoiceDate)
	assert.Equal(t, rec1, rec2)
}
