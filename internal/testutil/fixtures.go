package testutil

import (
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// CleanInvoice returns an extracted invoice that reconciles cleanly
// against the sample PO-2024-001 reference data.
func CleanInvoice() *model.ExtractedInvoice {
	return &model.ExtractedInvoice{
		VendorName:    model.Field{Value: "Acme Corp", Confidence: model.ConfidenceHigh},
		InvoiceNumber: model.Field{Value: "INV-1001", Confidence: model.ConfidenceHigh},
		PONumber:      model.Field{Value: "PO-2024-001", Confidence: model.ConfidenceHigh},
		PaymentTerms:  model.Field{Value: "2/10 Net 30", Confidence: model.ConfidenceMedium},
		InvoiceDate:   model.DateField{Value: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Confidence: model.ConfidenceHigh},
		TotalAmount:   model.AmountField{Value: decimal.NewFromInt(5000), Confidence: model.ConfidenceHigh},
		Lines: []model.InvoiceLine{
			{
				Description: "Industrial Widgets",
				Quantity:    decimal.NewFromInt(20),
				UnitPrice:   decimal.NewFromInt(250),
				Total:       decimal.NewFromInt(5000),
			},
		},
	}
}
