package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"
)

// SaveDecision persists a decision together with its full audit payload.
func (s *SQLiteStorage) SaveDecision(ctx context.Context, decision *model.Decision) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDecision(decision); err != nil {
		return err
	}

	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, invoice_number, outcome, payload, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, decision.ID, decision.InvoiceNumber, string(decision.Outcome), string(payload), decision.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to save decision: %w", err)
	}

	return nil
}

// GetDecision retrieves a decision by its identifier.
func (s *SQLiteStorage) GetDecision(ctx context.Context, id string) (*model.Decision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	return s.scanDecision(s.db.QueryRowContext(ctx,
		`SELECT payload FROM decisions WHERE id = ?`, id))
}

// GetDecisionByInvoiceNumber returns the most recent decision for an
// invoice number. This backs duplicate-invoice detection.
func (s *SQLiteStorage) GetDecisionByInvoiceNumber(ctx context.Context, invoiceNumber string) (*model.Decision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(invoiceNumber, "invoiceNumber"); err != nil {
		return nil, err
	}

	return s.scanDecision(s.db.QueryRowContext(ctx, `
		SELECT payload FROM decisions
		WHERE invoice_number = ? COLLATE NOCASE
		ORDER BY created_at DESC
		LIMIT 1
	`, invoiceNumber))
}

func (s *SQLiteStorage) scanDecision(row *sql.Row) (*model.Decision, error) {
	var payload string
	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}

	var decision model.Decision
	if err := json.Unmarshal([]byte(payload), &decision); err != nil {
		return nil, fmt.Errorf("corrupt decision payload: %w", err)
	}

	return &decision, nil
}

// ListDecisions returns decisions matching the filter, newest first.
func (s *SQLiteStorage) ListDecisions(ctx context.Context, filter service.DecisionFilter) ([]model.Decision, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT payload FROM decisions`
	var conditions []string
	var args []any

	if filter.Since != nil {
		conditions = append(conditions, `created_at >= ?`)
		args = append(args, *filter.Since)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, `outcome = ?`)
		args = append(args, string(filter.Outcome))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decisions []model.Decision
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		var decision model.Decision
		if err := json.Unmarshal([]byte(payload), &decision); err != nil {
			return nil, fmt.Errorf("corrupt decision payload: %w", err)
		}
		decisions = append(decisions, decision)
	}

	return decisions, rows.Err()
}
