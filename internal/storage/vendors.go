package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"
)

// SaveVendor inserts or updates a vendor record.
func (s *SQLiteStorage) SaveVendor(ctx context.Context, vendor *model.Vendor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVendor(vendor); err != nil {
		return err
	}

	if vendor.CreatedAt.IsZero() {
		vendor.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vendors (id, name, category, default_terms, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			default_terms = excluded.default_terms,
			status = excluded.status
	`, vendor.ID, vendor.Name, vendor.Category, vendor.DefaultTerms, string(vendor.Status), vendor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}

	s.cacheVendor(vendor)

	return nil
}

// GetVendor retrieves a vendor by its identifier.
func (s *SQLiteStorage) GetVendor(ctx context.Context, id string) (*model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	return s.getVendorTx(ctx, s.db, `WHERE id = ?`, id)
}

// GetVendorByName retrieves a vendor by canonical name, case-insensitively.
func (s *SQLiteStorage) GetVendorByName(ctx context.Context, name string) (*model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	if vendor := s.getCachedVendor(name); vendor != nil {
		return vendor, nil
	}

	return s.getVendorTx(ctx, s.db, `WHERE name = ? COLLATE NOCASE`, name)
}

func (s *SQLiteStorage) getVendorTx(ctx context.Context, q queryable, where string, arg any) (*model.Vendor, error) {
	var vendor model.Vendor
	var status string

	err := q.QueryRowContext(ctx, `
		SELECT id, name, category, default_terms, status, created_at
		FROM vendors `+where,
		arg,
	).Scan(&vendor.ID, &vendor.Name, &vendor.Category, &vendor.DefaultTerms, &status, &vendor.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	vendor.Status = model.VendorStatus(status)
	s.cacheVendor(&vendor)

	return &vendor, nil
}

// ListVendors returns all vendors ordered by name.
func (s *SQLiteStorage) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, default_terms, status, created_at
		FROM vendors
		ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vendors []model.Vendor
	for rows.Next() {
		var vendor model.Vendor
		var status string
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.Category, &vendor.DefaultTerms, &status, &vendor.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendor.Status = model.VendorStatus(status)
		vendors = append(vendors, vendor)
	}

	return vendors, rows.Err()
}

// SetVendorStatus toggles a vendor between active and inactive. Vendors are
// otherwise immutable after creation.
func (s *SQLiteStorage) SetVendorStatus(ctx context.Context, id string, status model.VendorStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	switch status {
	case model.VendorActive, model.VendorInactive:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidVendor, status)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE vendors SET status = ? WHERE id = ?`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update vendor status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check vendor update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	s.invalidateVendorCache()

	return nil
}
