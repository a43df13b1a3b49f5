package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// SavePurchaseOrder inserts or replaces a purchase order and its lines.
func (s *SQLiteStorage) SavePurchaseOrder(ctx context.Context, po *model.PurchaseOrder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePurchaseOrder(po); err != nil {
		return err
	}

	if po.CreatedAt.IsZero() {
		po.CreatedAt = time.Now().UTC()
	}
	if po.Status == "" {
		po.Status = model.POActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (number, vendor_id, expected_amount, tolerance_percent, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			vendor_id = excluded.vendor_id,
			expected_amount = excluded.expected_amount,
			tolerance_percent = excluded.tolerance_percent,
			status = excluded.status
	`, po.Number, po.VendorID, po.ExpectedAmount.String(), po.TolerancePercent.String(), string(po.Status), po.CreatedAt); err != nil {
		return fmt.Errorf("failed to save purchase order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE po_number = ?`, po.Number); err != nil {
		return fmt.Errorf("failed to clear order lines: %w", err)
	}

	for i, line := range po.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (po_number, line_no, description, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?)
		`, po.Number, i+1, line.Description, line.Quantity.String(), line.UnitPrice.String()); err != nil {
			return fmt.Errorf("failed to save order line %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// GetPurchaseOrder retrieves a purchase order with its lines,
// case-insensitively by number.
func (s *SQLiteStorage) GetPurchaseOrder(ctx context.Context, number string) (*model.PurchaseOrder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(number, "number"); err != nil {
		return nil, err
	}

	var po model.PurchaseOrder
	var status, expected, tolerance string

	err := s.db.QueryRowContext(ctx, `
		SELECT number, vendor_id, expected_amount, tolerance_percent, status, created_at
		FROM purchase_orders
		WHERE number = ? COLLATE NOCASE
	`, number).Scan(&po.Number, &po.VendorID, &expected, &tolerance, &status, &po.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order: %w", err)
	}

	po.Status = model.PurchaseOrderStatus(status)
	if po.ExpectedAmount, err = decimal.NewFromString(expected); err != nil {
		return nil, fmt.Errorf("corrupt expected amount for %s: %w", po.Number, err)
	}
	if po.TolerancePercent, err = decimal.NewFromString(tolerance); err != nil {
		return nil, fmt.Errorf("corrupt tolerance for %s: %w", po.Number, err)
	}

	if po.Lines, err = s.getOrderLines(ctx, po.Number); err != nil {
		return nil, err
	}

	return &po, nil
}

func (s *SQLiteStorage) getOrderLines(ctx context.Context, number string) ([]model.OrderLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, quantity, unit_price
		FROM order_lines
		WHERE po_number = ?
		ORDER BY line_no
	`, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []model.OrderLine
	for rows.Next() {
		var line model.OrderLine
		var quantity, unitPrice string
		if err := rows.Scan(&line.Description, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if line.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("corrupt quantity on %s: %w", number, err)
		}
		if line.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("corrupt unit price on %s: %w", number, err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// ListPurchaseOrders returns all purchase orders ordered by number. Lines
// are loaded for each order.
func (s *SQLiteStorage) ListPurchaseOrders(ctx context.Context) ([]model.PurchaseOrder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number FROM purchase_orders ORDER BY number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		numbers = append(numbers, number)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	orders := make([]model.PurchaseOrder, 0, len(numbers))
	for _, number := range numbers {
		po, err := s.GetPurchaseOrder(ctx, number)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *po)
	}

	return orders, nil
}

// ClosePurchaseOrder marks a purchase order as closed.
func (s *SQLiteStorage) ClosePurchaseOrder(ctx context.Context, number string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(number, "number"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE purchase_orders SET status = ? WHERE number = ? COLLATE NOCASE`,
		string(model.POClosed), number)
	if err != nil {
		return fmt.Errorf("failed to close purchase order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check purchase order update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
