package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus indicates whether a PO can still be invoiced against.
type PurchaseOrderStatus string

const (
	// POActive means the purchase order is open for invoicing.
	POActive PurchaseOrderStatus = "active"
	// POClosed means the purchase order has been fulfilled or canceled.
	POClosed PurchaseOrderStatus = "closed"
)

// OrderLine is a single ordered line item on a purchase order.
type OrderLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// PurchaseOrder represents a procurement commitment. It is created at
// procurement time and read-only during matching.
type PurchaseOrder struct {
	CreatedAt        time.Time
	Number           string // e.g. "PO-2024-001"
	VendorID         string
	Status           PurchaseOrderStatus
	Lines            []OrderLine
	ExpectedAmount   decimal.Decimal
	TolerancePercent decimal.Decimal // allowed deviation, e.g. 10 for ±10%
}

// ToleranceAmount returns the absolute deviation allowed against the
// expected amount.
func (po *PurchaseOrder) ToleranceAmount() decimal.Decimal {
	return po.ExpectedAmount.Mul(po.TolerancePercent).Div(decimal.NewFromInt(100))
}

// LineByDescription finds an ordered line by case-insensitive description.
func (po *PurchaseOrder) LineByDescription(description string) *OrderLine {
	want := strings.ToLower(strings.TrimSpace(description))
	for i := range po.Lines {
		if strings.ToLower(strings.TrimSpace(po.Lines[i].Description)) == want {
			return &po.Lines[i]
		}
	}
	return nil
}

// GoodsReceipt records goods received against a purchase order. Receipts
// are append-only; partial shipments produce multiple receipts per PO.
type GoodsReceipt struct {
	ReceivedAt time.Time
	ID         string // uuid
	PONumber   string
	Lines      []ReceiptLine
}

// ReceiptLine is a single received line item on a goods receipt.
type ReceiptLine struct {
	Description string
	Quantity    decimal.Decimal
}

// TotalReceived sums the received quantity for a line description across a
// set of receipts. Matching must aggregate across partial shipments before
// comparing against invoiced quantities.
func TotalReceived(receipts []GoodsReceipt, description string) decimal.Decimal {
	want := strings.ToLower(strings.TrimSpace(description))
	total := decimal.Zero
	for _, r := range receipts {
		for _, line := range r.Lines {
			if strings.ToLower(strings.TrimSpace(line.Description)) == want {
				total = total.Add(line.Quantity)
			}
		}
	}
	return total
}
