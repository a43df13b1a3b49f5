package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Reference data: vendors, purchase orders, goods receipts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS vendors (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					category TEXT,
					default_terms TEXT,
					status TEXT NOT NULL DEFAULT 'active',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_vendors_name ON vendors(name COLLATE NOCASE)`,

				`CREATE TABLE IF NOT EXISTS purchase_orders (
					number TEXT PRIMARY KEY,
					vendor_id TEXT NOT NULL,
					expected_amount TEXT NOT NULL,
					tolerance_percent TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'active',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (vendor_id) REFERENCES vendors(id)
				)`,

				`CREATE TABLE IF NOT EXISTS order_lines (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					po_number TEXT NOT NULL,
					line_no INTEGER NOT NULL,
					description TEXT NOT NULL,
					quantity TEXT NOT NULL,
					unit_price TEXT NOT NULL,
					FOREIGN KEY (po_number) REFERENCES purchase_orders(number)
				)`,
				`CREATE INDEX idx_order_lines_po ON order_lines(po_number)`,

				`CREATE TABLE IF NOT EXISTS goods_receipts (
					id TEXT PRIMARY KEY,
					po_number TEXT NOT NULL,
					received_at DATETIME NOT NULL,
					FOREIGN KEY (po_number) REFERENCES purchase_orders(number)
				)`,
				`CREATE INDEX idx_goods_receipts_po ON goods_receipts(po_number)`,

				`CREATE TABLE IF NOT EXISTS receipt_lines (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					receipt_id TEXT NOT NULL,
					description TEXT NOT NULL,
					quantity TEXT NOT NULL,
					FOREIGN KEY (receipt_id) REFERENCES goods_receipts(id)
				)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute migration query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Decisions with audit payloads",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS decisions (
					id TEXT PRIMARY KEY,
					invoice_number TEXT,
					outcome TEXT NOT NULL,
					payload TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_decisions_invoice ON decisions(invoice_number)`,
				`CREATE INDEX idx_decisions_created ON decisions(created_at)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute migration query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index decisions by outcome for history filtering",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(`CREATE INDEX idx_decisions_outcome ON decisions(outcome)`); err != nil {
				return fmt.Errorf("failed to execute migration query: %w", err)
			}
			return nil
		},
	},
}

// Migrate runs all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			migration.Version, migration.Description,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaCurrent reports whether the database is migrated to the expected
// version. The decision engine refuses to run against an unmigrated store.
func (s *SQLiteStorage) SchemaCurrent(ctx context.Context) (bool, error) {
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return false, err
	}
	return version >= ExpectedSchemaVersion, nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		// Missing migrations table means a fresh database.
		return 0, nil //nolint:nilerr
	}
	return int(version.Int64), nil
}
