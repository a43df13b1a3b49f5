package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"

	"github.com/shopspring/decimal"
)

// SaveGoodsReceipt appends a goods receipt. Receipts are never updated or
// deleted; partial shipments accumulate as separate records.
func (s *SQLiteStorage) SaveGoodsReceipt(ctx context.Context, receipt *model.GoodsReceipt) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGoodsReceipt(receipt); err != nil {
		return err
	}

	if receipt.ReceivedAt.IsZero() {
		receipt.ReceivedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO goods_receipts (id, po_number, received_at)
		VALUES (?, ?, ?)
	`, receipt.ID, receipt.PONumber, receipt.ReceivedAt); err != nil {
		return fmt.Errorf("failed to save goods receipt: %w", err)
	}

	for i, line := range receipt.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO receipt_lines (receipt_id, description, quantity)
			VALUES (?, ?, ?)
		`, receipt.ID, line.Description, line.Quantity.String()); err != nil {
			return fmt.Errorf("failed to save receipt line %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// GetReceiptsByPO returns every goods receipt recorded against a purchase
// order, oldest first.
func (s *SQLiteStorage) GetReceiptsByPO(ctx context.Context, poNumber string) ([]model.GoodsReceipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(poNumber, "poNumber"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, po_number, received_at
		FROM goods_receipts
		WHERE po_number = ? COLLATE NOCASE
		ORDER BY received_at, id
	`, poNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get goods receipts: %w", err)
	}

	var receipts []model.GoodsReceipt
	for rows.Next() {
		var receipt model.GoodsReceipt
		if err := rows.Scan(&receipt.ID, &receipt.PONumber, &receipt.ReceivedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan goods receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range receipts {
		if receipts[i].Lines, err = s.getReceiptLines(ctx, receipts[i].ID); err != nil {
			return nil, err
		}
	}

	return receipts, nil
}

func (s *SQLiteStorage) getReceiptLines(ctx context.Context, receiptID string) ([]model.ReceiptLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT description, quantity
		FROM receipt_lines
		WHERE receipt_id = ?
		ORDER BY id
	`, receiptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt lines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []model.ReceiptLine
	for rows.Next() {
		var line model.ReceiptLine
		var quantity string
		if err := rows.Scan(&line.Description, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan receipt line: %w", err)
		}
		if line.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("corrupt quantity on receipt %s: %w", receiptID, err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
