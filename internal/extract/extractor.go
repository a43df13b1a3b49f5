// Package extract adapts extraction-service output documents into typed
// invoice fields. The extraction service is a black box; its documents are
// JSON with loosely typed fields, so parsing here is deliberately tolerant.
// A field that is missing or garbled becomes an absent field, never an
// error, so a bad document still flows through the decision pipeline and
// surfaces as anomalies.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// Date layouts the extraction service has been observed to emit.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// JSONExtractor reads extraction-service JSON documents from disk.
type JSONExtractor struct{}

// NewJSONExtractor creates an extractor for JSON documents.
func NewJSONExtractor() *JSONExtractor {
	return &JSONExtractor{}
}

// Extract reads and parses one extraction document. Unreadable files and
// invalid JSON are reported as extraction failures; everything else is
// recovered field by field.
func (e *JSONExtractor) Extract(ctx context.Context, path string) (*model.ExtractedInvoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrExtractionFailed, path, err)
	}

	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", common.ErrExtractionFailed, path, err)
	}
	return inv, nil
}

// document is the loose wire shape. Each field may be a bare scalar or a
// {"value": ..., "confidence": ...} object; amounts may arrive as numbers
// or strings. Documents from older extractor versions nest everything
// under "extracted_data".
type document struct {
	Extracted     *document         `json:"extracted_data,omitempty"`
	VendorName    looseField        `json:"vendor_name"`
	InvoiceNumber looseField        `json:"invoice_number"`
	PONumber      looseField        `json:"po_number"`
	PaymentTerms  looseField        `json:"payment_terms"`
	InvoiceDate   looseField        `json:"invoice_date"`
	TotalAmount   looseField        `json:"total_amount"`
	Lines         []documentLine    `json:"line_items"`
	Confidence    map[string]string `json:"confidence_scores,omitempty"`
}

type documentLine struct {
	Description string          `json:"description"`
	Quantity    json.RawMessage `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unit_price"`
	Total       json.RawMessage `json:"total"`
}

// looseField accepts `"x"`, `123`, or `{"value": "x", "confidence": "high"}`.
type looseField struct {
	value      string
	confidence model.Confidence
	present    bool
}

func (f *looseField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		var obj struct {
			Value      json.RawMessage `json:"value"`
			Confidence string          `json:"confidence"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil // garbled object, treat as absent
		}
		f.value = scalarString(obj.Value)
		f.confidence = parseConfidence(obj.Confidence)
		f.present = f.value != ""
		return nil
	}

	f.value = scalarString(data)
	f.present = f.value != ""
	return nil
}

// scalarString renders a raw JSON scalar as its text value.
func scalarString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseConfidence(s string) model.Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(model.ConfidenceHigh):
		return model.ConfidenceHigh
	case string(model.ConfidenceMedium):
		return model.ConfidenceMedium
	case string(model.ConfidenceLow):
		return model.ConfidenceLow
	default:
		return ""
	}
}

// Parse converts one extraction document into an ExtractedInvoice. Only a
// structurally invalid document errors; per-field problems degrade to
// absent fields with low confidence.
func Parse(data []byte) (*model.ExtractedInvoice, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid extraction document: %w", err)
	}
	if doc.Extracted != nil {
		scores := doc.Confidence
		doc = *doc.Extracted
		if doc.Confidence == nil {
			doc.Confidence = scores
		}
	}

	inv := &model.ExtractedInvoice{
		VendorName:    doc.field("vendor_name", doc.VendorName),
		InvoiceNumber: doc.field("invoice_number", doc.InvoiceNumber),
		PONumber:      doc.field("po_number", doc.PONumber),
		PaymentTerms:  doc.field("payment_terms", doc.PaymentTerms),
	}

	inv.InvoiceDate = parseDate(doc.field("invoice_date", doc.InvoiceDate))
	inv.TotalAmount = parseAmount(doc.field("total_amount", doc.TotalAmount))

	for _, line := range doc.Lines {
		if strings.TrimSpace(line.Description) == "" {
			continue
		}
		inv.Lines = append(inv.Lines, model.InvoiceLine{
			Description: strings.TrimSpace(line.Description),
			Quantity:    parseNumber(line.Quantity),
			UnitPrice:   parseNumber(line.UnitPrice),
			Total:       parseNumber(line.Total),
		})
	}

	return inv, nil
}

// field resolves a loose field against the document-level confidence map.
// An absent value is low confidence regardless of what the map claims.
func (d *document) field(key string, lf looseField) model.Field {
	if !lf.present {
		return model.Field{Confidence: model.ConfidenceLow}
	}
	confidence := lf.confidence
	if confidence == "" {
		confidence = parseConfidence(d.Confidence[key])
	}
	if confidence == "" {
		confidence = model.ConfidenceMedium
	}
	return model.Field{Value: lf.value, Confidence: confidence}
}

func parseDate(f model.Field) model.DateField {
	if !f.Present() {
		return model.DateField{Confidence: model.ConfidenceLow}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, f.Value); err == nil {
			return model.DateField{Value: t, Confidence: f.Confidence}
		}
	}
	slog.Debug("Unparseable invoice date", "value", f.Value)
	return model.DateField{Confidence: model.ConfidenceLow}
}

func parseAmount(f model.Field) model.AmountField {
	if !f.Present() {
		return model.AmountField{Confidence: model.ConfidenceLow}
	}
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(f.Value)
	amount, err := decimal.NewFromString(strings.TrimSpace(cleaned))
	if err != nil {
		slog.Debug("Unparseable invoice amount", "value", f.Value)
		return model.AmountField{Confidence: model.ConfidenceLow}
	}
	return model.AmountField{Value: amount, Confidence: f.Confidence}
}

func parseNumber(raw json.RawMessage) decimal.Decimal {
	s := scalarString(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
