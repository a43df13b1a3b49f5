// Package model defines the core domain models used throughout the application.
package model

import "time"

// VendorStatus indicates whether a vendor may receive new invoices.
type VendorStatus string

const (
	// VendorActive means the vendor is approved for invoicing.
	VendorActive VendorStatus = "active"
	// VendorInactive means the vendor has been disabled; invoices from it
	// require review.
	VendorInactive VendorStatus = "inactive"
)

// Vendor represents an approved supplier in the reference data.
// Vendors are immutable once created except for status toggles.
type Vendor struct {
	CreatedAt    time.Time
	ID           string // e.g. "V001"
	Name         string // canonical name used for matching
	Category     string
	DefaultTerms string // payment-term string, e.g. "2/10 Net 30"
	Status       VendorStatus
}

// IsActive reports whether the vendor may be auto-approved against.
func (v *Vendor) IsActive() bool {
	return v.Status == VendorActive
}
