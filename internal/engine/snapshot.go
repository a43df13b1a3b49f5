package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"
)

// snapshot is the read-only reference data for one decision run. Loading
// it up front keeps every component a pure function of its inputs and
// makes a run idempotent.
type snapshot struct {
	po            *model.PurchaseOrder
	matchedVendor *model.Vendor
	duplicate     *model.Decision
	vendors       []model.Vendor
	receipts      []model.GoodsReceipt
}

// defaultTerms returns the matched vendor's default payment terms, used as
// fallback when the invoice carries no parseable terms.
func (s *snapshot) defaultTerms() string {
	if s.matchedVendor == nil {
		return ""
	}
	return s.matchedVendor.DefaultTerms
}

// loadSnapshot reads everything a decision run needs. An unreachable or
// empty store is a precondition violation: no decision can be trusted
// without reference data, so this is the one fatal path.
func (e *Engine) loadSnapshot(ctx context.Context, inv *model.ExtractedInvoice) (*snapshot, error) {
	if e.store == nil {
		return nil, common.ErrSnapshotUnavailable
	}

	vendors, err := e.store.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSnapshotUnavailable, err)
	}
	if len(vendors) == 0 {
		return nil, fmt.Errorf("%w: vendor reference data is empty", common.ErrSnapshotUnavailable)
	}

	snap := &snapshot{vendors: vendors}

	if name := strings.TrimSpace(inv.VendorName.Value); name != "" {
		vendor, err := e.store.GetVendorByName(ctx, name)
		switch {
		case err == nil:
			snap.matchedVendor = vendor
		case errors.Is(err, common.ErrNotFound):
			// Fuzzy handling happens in the validator.
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrSnapshotUnavailable, err)
		}
	}

	if poNumber := strings.TrimSpace(inv.PONumber.Value); poNumber != "" {
		po, err := e.store.GetPurchaseOrder(ctx, poNumber)
		switch {
		case err == nil:
			snap.po = po
		case errors.Is(err, common.ErrNotFound):
			// Missing PO becomes an anomaly, not a failure.
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrSnapshotUnavailable, err)
		}

		if snap.po != nil {
			receipts, err := e.store.GetReceiptsByPO(ctx, snap.po.Number)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrSnapshotUnavailable, err)
			}
			snap.receipts = receipts
		}
	}

	if invoiceNumber := strings.TrimSpace(inv.InvoiceNumber.Value); invoiceNumber != "" {
		existing, err := e.store.GetDecisionByInvoiceNumber(ctx, invoiceNumber)
		switch {
		case err == nil:
			snap.duplicate = existing
		case errors.Is(err, common.ErrNotFound):
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrSnapshotUnavailable, err)
		}
	}

	return snap, nil
}
