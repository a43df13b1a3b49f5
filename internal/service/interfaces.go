// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"
)

// DecisionFilter defines filtering options for decision queries.
type DecisionFilter struct {
	Since   *time.Time
	Outcome model.Outcome
	Limit   int
}

// Storage defines the contract for the reference-data and decision store.
// The decision engine treats it as a read-only snapshot for the duration of
// one decision run; writes happen outside the core pipeline.
type Storage interface {
	// Vendor operations
	SaveVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendor(ctx context.Context, id string) (*model.Vendor, error)
	GetVendorByName(ctx context.Context, name string) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	SetVendorStatus(ctx context.Context, id string, status model.VendorStatus) error

	// Purchase order operations
	SavePurchaseOrder(ctx context.Context, po *model.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, number string) (*model.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error)
	ClosePurchaseOrder(ctx context.Context, number string) error

	// Goods receipt operations (append-only)
	SaveGoodsReceipt(ctx context.Context, receipt *model.GoodsReceipt) error
	GetReceiptsByPO(ctx context.Context, poNumber string) ([]model.GoodsReceipt, error)

	// Decision operations
	SaveDecision(ctx context.Context, decision *model.Decision) error
	GetDecision(ctx context.Context, id string) (*model.Decision, error)
	GetDecisionByInvoiceNumber(ctx context.Context, invoiceNumber string) (*model.Decision, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]model.Decision, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Extractor is the external extraction collaborator. It converts a source
// document into typed invoice fields with confidence labels. The core
// treats it as a black box.
type Extractor interface {
	Extract(ctx context.Context, path string) (*model.ExtractedInvoice, error)
}

// OutreachMessage is a drafted vendor-facing message ready for dispatch.
type OutreachMessage struct {
	VendorName    string
	InvoiceNumber string
	Subject       string
	Body          string
}

// OutreachDispatcher sends drafted outreach messages. Dispatch is optional
// and always outside the decision pipeline.
type OutreachDispatcher interface {
	Dispatch(ctx context.Context, msg OutreachMessage) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
