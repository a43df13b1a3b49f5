package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kinman1313/invoice-processor/internal/engine"
	"github.com/kinman1313/invoice-processor/internal/extract"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanDocument = `{
	"vendor_name": {"value": "Acme Corp", "confidence": "high"},
	"invoice_number": {"value": "INV-1001", "confidence": "high"},
	"po_number": {"value": "PO-2024-001", "confidence": "high"},
	"payment_terms": {"value": "2/10 Net 30", "confidence": "medium"},
	"invoice_date": {"value": "2024-03-01", "confidence": "high"},
	"total_amount": {"value": 5000, "confidence": "high"},
	"line_items": [
		{"description": "Industrial Widgets", "quantity": 20, "unit_price": 250, "total": 5000}
	]
}`

func newTestPipeline(t *testing.T) *Pipeline {
	store := testutil.SetupSeededTestDB(t)
	return &Pipeline{
		Extractor: extract.NewJSONExtractor(),
		Decider:   engine.New(store),
		Store:     store,
	}
}

func TestPipelineProcessFile(t *testing.T) {
	pipeline := newTestPipeline(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "invoice.json")
	require.NoError(t, os.WriteFile(path, []byte(cleanDocument), 0o644))

	decision, err := pipeline.ProcessFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePayEarly, decision.Outcome)

	// The decision was persisted under its invoice number.
	stored, err := pipeline.Store.GetDecisionByInvoiceNumber(ctx, "INV-1001")
	require.NoError(t, err)
	assert.Equal(t, decision.ID, stored.ID)
}

func TestPipelineProcessFileExtractionFailure(t *testing.T) {
	pipeline := newTestPipeline(t)

	path := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := pipeline.ProcessFile(context.Background(), path)
	require.Error(t, err)
}

func TestWatcherDrainsExistingInbox(t *testing.T) {
	dir := t.TempDir()
	watcher := NewWatcher(newTestPipeline(t), dir)
	watcher.settleDelay = 10 * time.Millisecond

	inbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "invoice.json"), []byte(cleanDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "garbage.json"), []byte("not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "notes.txt"), []byte("ignored"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	processed := filepath.Join(dir, "processed", "invoice.json")
	failed := filepath.Join(dir, "failed", "garbage.json")
	waitForFile(t, processed)
	waitForFile(t, failed)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// Non-document files stay put.
	_, err := os.Stat(filepath.Join(inbox, "notes.txt"))
	assert.NoError(t, err)
}

func TestWatcherProcessesDroppedFile(t *testing.T) {
	dir := t.TempDir()
	watcher := NewWatcher(newTestPipeline(t), dir)
	watcher.settleDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give Run a moment to establish the watch before dropping the file.
	waitForFile(t, filepath.Join(dir, "inbox"))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "inbox", "dropped.json"), []byte(cleanDocument), 0o644))

	waitForFile(t, filepath.Join(dir, "processed", "dropped.json"))

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", path)
}
