package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Confidence is the extraction service's self-reported confidence for a
// single extracted field.
type Confidence string

const (
	// ConfidenceHigh means the extractor is certain of the field value.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means the field value may need verification.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means the field value is a guess or was absent.
	ConfidenceLow Confidence = "low"
)

// Field is an extracted string field together with its confidence label.
type Field struct {
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// Present reports whether the extractor produced a non-empty value.
func (f Field) Present() bool {
	return strings.TrimSpace(f.Value) != ""
}

// AmountField is an extracted monetary amount with its confidence label.
type AmountField struct {
	Value      decimal.Decimal `json:"value"`
	Confidence Confidence      `json:"confidence"`
}

// Present reports whether the extractor produced an amount. A zero value
// with low (or no) confidence is the extractor's marker for an absent or
// unparseable amount.
func (f AmountField) Present() bool {
	if !f.Value.IsZero() {
		return true
	}
	return f.Confidence == ConfidenceHigh || f.Confidence == ConfidenceMedium
}

// DateField is an extracted date with its confidence label.
type DateField struct {
	Value      time.Time  `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// InvoiceLine is a single extracted invoice line item.
type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// ExtractedInvoice is the input contract from the extraction collaborator.
// The decision engine never mutates it.
type ExtractedInvoice struct {
	VendorName    Field         `json:"vendor_name"`
	InvoiceNumber Field         `json:"invoice_number"`
	PONumber      Field         `json:"po_number"`
	PaymentTerms  Field         `json:"payment_terms"`
	InvoiceDate   DateField     `json:"invoice_date"`
	TotalAmount   AmountField   `json:"total_amount"`
	Lines         []InvoiceLine `json:"line_items"`
}
