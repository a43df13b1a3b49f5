// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidVendor  = errors.New("invalid vendor")
	ErrInvalidPO      = errors.New("invalid purchase order")
	ErrInvalidReceipt = errors.New("invalid goods receipt")
	ErrInvalidResult  = errors.New("invalid decision")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateVendor(vendor *model.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("%w: vendor", ErrNilParameter)
	}
	if vendor.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidVendor)
	}
	if strings.TrimSpace(vendor.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVendor)
	}
	switch vendor.Status {
	case model.VendorActive, model.VendorInactive:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidVendor, vendor.Status)
	}
	return nil
}

func validatePurchaseOrder(po *model.PurchaseOrder) error {
	if po == nil {
		return fmt.Errorf("%w: purchase order", ErrNilParameter)
	}
	if po.Number == "" {
		return fmt.Errorf("%w: missing number", ErrInvalidPO)
	}
	if po.VendorID == "" {
		return fmt.Errorf("%w: missing vendor ID", ErrInvalidPO)
	}
	if po.ExpectedAmount.IsNegative() {
		return fmt.Errorf("%w: negative expected amount", ErrInvalidPO)
	}
	if po.TolerancePercent.IsNegative() {
		return fmt.Errorf("%w: negative tolerance", ErrInvalidPO)
	}
	return nil
}

func validateGoodsReceipt(receipt *model.GoodsReceipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if receipt.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidReceipt)
	}
	if receipt.PONumber == "" {
		return fmt.Errorf("%w: missing PO number", ErrInvalidReceipt)
	}
	if len(receipt.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrInvalidReceipt)
	}
	return nil
}

func validateDecision(decision *model.Decision) error {
	if decision == nil {
		return fmt.Errorf("%w: decision", ErrNilParameter)
	}
	if decision.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidResult)
	}
	if decision.Outcome == "" {
		return fmt.Errorf("%w: missing outcome", ErrInvalidResult)
	}
	return nil
}
