package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStorage_VendorRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	vendor := &model.Vendor{
		ID:           "V001",
		Name:         "Acme Corp",
		Category:     "supplies",
		DefaultTerms: "2/10 Net 30",
		Status:       model.VendorActive,
	}
	if err := store.SaveVendor(ctx, vendor); err != nil {
		t.Fatalf("Failed to save vendor: %v", err)
	}

	got, err := store.GetVendor(ctx, "V001")
	if err != nil {
		t.Fatalf("Failed to get vendor: %v", err)
	}
	if got.Name != "Acme Corp" || got.DefaultTerms != "2/10 Net 30" {
		t.Errorf("Vendor round trip mismatch: %+v", got)
	}

	// Name lookup is case-insensitive
	got, err = store.GetVendorByName(ctx, "ACME CORP")
	if err != nil {
		t.Fatalf("Failed to get vendor by name: %v", err)
	}
	if got.ID != "V001" {
		t.Errorf("Expected V001, got %s", got.ID)
	}

	if _, err := store.GetVendorByName(ctx, "Nobody Inc"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_VendorStatusToggle(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	vendor := &model.Vendor{ID: "V002", Name: "Tech Solutions Inc", Status: model.VendorActive}
	if err := store.SaveVendor(ctx, vendor); err != nil {
		t.Fatalf("Failed to save vendor: %v", err)
	}

	if err := store.SetVendorStatus(ctx, "V002", model.VendorInactive); err != nil {
		t.Fatalf("Failed to set status: %v", err)
	}

	// Cache must not serve the stale status
	got, err := store.GetVendorByName(ctx, "Tech Solutions Inc")
	if err != nil {
		t.Fatalf("Failed to get vendor: %v", err)
	}
	if got.Status != model.VendorInactive {
		t.Errorf("Expected inactive, got %s", got.Status)
	}

	if err := store.SetVendorStatus(ctx, "V999", model.VendorActive); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStorage_PurchaseOrderRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.SaveVendor(ctx, &model.Vendor{ID: "V001", Name: "Acme Corp", Status: model.VendorActive}); err != nil {
		t.Fatalf("Failed to save vendor: %v", err)
	}

	po := &model.PurchaseOrder{
		Number:           "PO-2024-001",
		VendorID:         "V001",
		ExpectedAmount:   decimal.RequireFromString("5000"),
		TolerancePercent: decimal.RequireFromString("10"),
		Status:           model.POActive,
		Lines: []model.OrderLine{
			{Description: "Widget A", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("250.00")},
			{Description: "Widget B", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.RequireFromString("500.00")},
		},
	}
	if err := store.SavePurchaseOrder(ctx, po); err != nil {
		t.Fatalf("Failed to save PO: %v", err)
	}

	got, err := store.GetPurchaseOrder(ctx, "po-2024-001")
	if err != nil {
		t.Fatalf("Failed to get PO: %v", err)
	}
	if !got.ExpectedAmount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected amount 5000, got %s", got.ExpectedAmount)
	}
	if len(got.Lines) != 2 || got.Lines[0].Description != "Widget A" {
		t.Errorf("Lines not preserved in order: %+v", got.Lines)
	}

	if err := store.ClosePurchaseOrder(ctx, "PO-2024-001"); err != nil {
		t.Fatalf("Failed to close PO: %v", err)
	}
	got, err = store.GetPurchaseOrder(ctx, "PO-2024-001")
	if err != nil {
		t.Fatalf("Failed to get PO: %v", err)
	}
	if got.Status != model.POClosed {
		t.Errorf("Expected closed, got %s", got.Status)
	}
}

func TestSQLiteStorage_ReceiptsAppendOnly(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		receipt := &model.GoodsReceipt{
			ID:         uuid.NewString(),
			PONumber:   "PO-2024-001",
			ReceivedAt: time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
			Lines: []model.ReceiptLine{
				{Description: "Widget A", Quantity: decimal.NewFromInt(3)},
			},
		}
		if err := store.SaveGoodsReceipt(ctx, receipt); err != nil {
			t.Fatalf("Failed to save receipt %d: %v", i, err)
		}
	}

	receipts, err := store.GetReceiptsByPO(ctx, "PO-2024-001")
	if err != nil {
		t.Fatalf("Failed to get receipts: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("Expected 2 receipts, got %d", len(receipts))
	}

	total := model.TotalReceived(receipts, "widget a")
	if !total.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected aggregated quantity 6, got %s", total)
	}
}

func TestSQLiteStorage_DecisionPersistence(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	decision := &model.Decision{
		ID:            uuid.NewString(),
		InvoiceNumber: "INV-1001",
		Success:       true,
		Outcome:       model.OutcomeAutoApprove,
		Checks: model.Validations{
			Vendor: model.ValidationResult{Valid: true, Severity: model.SeverityNone},
		},
		AuditTrail: []model.AuditEntry{
			{Step: "vendor_validation", Input: "Acme Corp", Output: "valid", Timestamp: time.Now().UTC()},
		},
	}
	if err := store.SaveDecision(ctx, decision); err != nil {
		t.Fatalf("Failed to save decision: %v", err)
	}

	got, err := store.GetDecisionByInvoiceNumber(ctx, "inv-1001")
	if err != nil {
		t.Fatalf("Failed to get decision: %v", err)
	}
	if got.Outcome != model.OutcomeAutoApprove {
		t.Errorf("Expected auto_approve, got %s", got.Outcome)
	}
	if len(got.AuditTrail) != 1 || got.AuditTrail[0].Step != "vendor_validation" {
		t.Errorf("Audit trail not preserved: %+v", got.AuditTrail)
	}

	// Saving the same decision ID twice is a duplicate
	if err := store.SaveDecision(ctx, decision); !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("Expected ErrDuplicateEntry, got %v", err)
	}
}

func TestSQLiteStorage_ListDecisionsFilter(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	outcomes := []model.Outcome{
		model.OutcomeAutoApprove,
		model.OutcomeNeedsReview,
		model.OutcomeNeedsReview,
		model.OutcomeRejected,
	}
	for i, outcome := range outcomes {
		d := &model.Decision{
			ID:            uuid.NewString(),
			InvoiceNumber: "INV-" + string(rune('A'+i)),
			Outcome:       outcome,
			CreatedAt:     time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := store.SaveDecision(ctx, d); err != nil {
			t.Fatalf("Failed to save decision: %v", err)
		}
	}

	all, err := store.ListDecisions(ctx, service.DecisionFilter{})
	if err != nil {
		t.Fatalf("Failed to list decisions: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Expected 4 decisions, got %d", len(all))
	}
	// Newest first
	if all[0].Outcome != model.OutcomeRejected {
		t.Errorf("Expected newest first, got %s", all[0].Outcome)
	}

	reviews, err := store.ListDecisions(ctx, service.DecisionFilter{Outcome: model.OutcomeNeedsReview})
	if err != nil {
		t.Fatalf("Failed to filter decisions: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("Expected 2 needs_review decisions, got %d", len(reviews))
	}

	since := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	recent, err := store.ListDecisions(ctx, service.DecisionFilter{Since: &since, Limit: 1})
	if err != nil {
		t.Fatalf("Failed to filter by date: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("Expected 1 decision, got %d", len(recent))
	}
}

func TestSQLiteStorage_SchemaCurrent(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	current, err := store.SchemaCurrent(ctx)
	if err != nil {
		t.Fatalf("Failed to check schema: %v", err)
	}
	if current {
		t.Error("Fresh database should not be schema-current before migration")
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	current, err = store.SchemaCurrent(ctx)
	if err != nil {
		t.Fatalf("Failed to check schema: %v", err)
	}
	if !current {
		t.Error("Migrated database should be schema-current")
	}
}
