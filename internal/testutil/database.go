// Package testutil provides test databases and reference-data fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/kinman1313/invoice-processor/internal/refdata"
	"github.com/kinman1313/invoice-processor/internal/service"
	"github.com/kinman1313/invoice-processor/internal/storage"
)

// SetupTestDB creates a migrated in-memory database and registers cleanup.
func SetupTestDB(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SetupSeededTestDB creates a migrated in-memory database preloaded with
// the standard reference fixtures.
func SetupSeededTestDB(t *testing.T) service.Storage {
	t.Helper()

	store := SetupTestDB(t)
	ctx := context.Background()

	for _, vendor := range refdata.SampleVendors() {
		v := vendor
		if err := store.SaveVendor(ctx, &v); err != nil {
			t.Fatalf("failed to seed vendor %s: %v", v.ID, err)
		}
	}
	for _, po := range refdata.SamplePurchaseOrders() {
		p := po
		if err := store.SavePurchaseOrder(ctx, &p); err != nil {
			t.Fatalf("failed to seed PO %s: %v", p.Number, err)
		}
	}
	for _, receipt := range refdata.SampleReceipts() {
		r := receipt
		if err := store.SaveGoodsReceipt(ctx, &r); err != nil {
			t.Fatalf("failed to seed receipt %s: %v", r.ID, err)
		}
	}

	return store
}
