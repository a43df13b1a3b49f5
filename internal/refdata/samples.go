// Package refdata holds the sample vendor, purchase-order, and goods
// receipt reference data used for seeding a fresh database and for tests.
package refdata

import (
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// SampleVendors returns the standard vendor reference set.
func SampleVendors() []model.Vendor {
	return []model.Vendor{
		{ID: "V001", Name: "Acme Corp", Category: "supplies", DefaultTerms: "2/10 Net 30", Status: model.VendorActive},
		{ID: "V002", Name: "Tech Solutions Inc", Category: "software", DefaultTerms: "Net 45", Status: model.VendorActive},
		{ID: "V003", Name: "Office Depot", Category: "supplies", DefaultTerms: "Net 30", Status: model.VendorActive},
		{ID: "V004", Name: "AWS", Category: "cloud services", DefaultTerms: "Net 30", Status: model.VendorActive},
		{ID: "V006", Name: "FedEx", Category: "shipping", DefaultTerms: "Net 15", Status: model.VendorActive},
		{ID: "V009", Name: "Dell", Category: "hardware", DefaultTerms: "1/10 Net 30", Status: model.VendorInactive},
	}
}

// SamplePurchaseOrders returns the standard purchase orders.
func SamplePurchaseOrders() []model.PurchaseOrder {
	return []model.PurchaseOrder{
		{
			Number:           "PO-2024-001",
			VendorID:         "V001",
			ExpectedAmount:   decimal.NewFromInt(5000),
			TolerancePercent: decimal.NewFromInt(10),
			Status:           model.POActive,
			Lines: []model.OrderLine{
				{Description: "Industrial Widgets", Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(250)},
			},
		},
		{
			Number:           "PO-2024-002",
			VendorID:         "V002",
			ExpectedAmount:   decimal.NewFromInt(15000),
			TolerancePercent: decimal.NewFromInt(10),
			Status:           model.POActive,
			Lines: []model.OrderLine{
				{Description: "Annual License", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(15000)},
			},
		},
		{
			Number:           "PO-2024-004",
			VendorID:         "V004",
			ExpectedAmount:   decimal.NewFromInt(8500),
			TolerancePercent: decimal.NewFromInt(15),
			Status:           model.POActive,
			Lines: []model.OrderLine{
				{Description: "Compute Reservation", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(8500)},
			},
		},
		{
			Number:           "PO-2023-099",
			VendorID:         "V001",
			ExpectedAmount:   decimal.NewFromInt(2500),
			TolerancePercent: decimal.NewFromInt(10),
			Status:           model.POClosed,
			Lines: []model.OrderLine{
				{Description: "Legacy Parts", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(250)},
			},
		},
	}
}

// SampleReceipts returns goods receipts covering the sample POs, with
// PO-2024-001 split across two partial shipments.
func SampleReceipts() []model.GoodsReceipt {
	return []model.GoodsReceipt{
		{
			ID:         "a2f1c6de-0000-4000-8000-000000000001",
			PONumber:   "PO-2024-001",
			ReceivedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			Lines: []model.ReceiptLine{
				{Description: "Industrial Widgets", Quantity: decimal.NewFromInt(12)},
			},
		},
		{
			ID:         "a2f1c6de-0000-4000-8000-000000000002",
			PONumber:   "PO-2024-001",
			ReceivedAt: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
			Lines: []model.ReceiptLine{
				{Description: "Industrial Widgets", Quantity: decimal.NewFromInt(8)},
			},
		},
		{
			ID:         "a2f1c6de-0000-4000-8000-000000000003",
			PONumber:   "PO-2024-002",
			ReceivedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Lines: []model.ReceiptLine{
				{Description: "Annual License", Quantity: decimal.NewFromInt(1)},
			},
		},
	}
}
