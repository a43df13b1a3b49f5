package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kinman1313/invoice-processor/internal/common"
)

// Default pause after a file event before processing, so the writer can
// finish flushing the document.
const defaultSettleDelay = 250 * time.Millisecond

// Watcher processes extracted-invoice documents dropped into an inbox
// directory. Successfully decided documents move to processed/, anything
// that fails extraction or decisioning moves to failed/.
type Watcher struct {
	pipeline    *Pipeline
	inboxDir    string
	processed   string
	failed      string
	settleDelay time.Duration
}

// NewWatcher creates a watcher rooted at dir, using dir/inbox,
// dir/processed, and dir/failed.
func NewWatcher(pipeline *Pipeline, dir string) *Watcher {
	return &Watcher{
		pipeline:    pipeline,
		inboxDir:    filepath.Join(dir, "inbox"),
		processed:   filepath.Join(dir, "processed"),
		failed:      filepath.Join(dir, "failed"),
		settleDelay: defaultSettleDelay,
	}
}

// InboxDir returns the watched inbox directory.
func (w *Watcher) InboxDir() string {
	return w.inboxDir
}

// Run watches the inbox until the context is canceled. Documents already
// sitting in the inbox are processed before watching begins.
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range []string{w.inboxDir, w.processed, w.failed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.inboxDir); err != nil {
		return fmt.Errorf("watching %s: %w", w.inboxDir, err)
	}

	if err := w.drainInbox(ctx); err != nil {
		return err
	}

	slog.Info("Watching inbox", "dir", w.inboxDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.wantsFile(event.Name) {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.settleDelay):
			}
			w.handleFile(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Filesystem watcher error", "error", err)
		}
	}
}

// drainInbox processes documents that arrived before the watcher started.
func (w *Watcher) drainInbox(ctx context.Context) error {
	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("reading inbox: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.inboxDir, entry.Name())
		if !w.wantsFile(path) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.handleFile(ctx, path)
	}
	return nil
}

// wantsFile filters for extraction documents and skips editor temp files.
func (w *Watcher) wantsFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func (w *Watcher) handleFile(ctx context.Context, path string) {
	name := filepath.Base(path)
	if _, err := os.Stat(path); err != nil {
		// Already moved or deleted between the event and now.
		return
	}

	slog.Info("Processing invoice document", "file", name)

	decision, err := w.pipeline.ProcessFile(ctx, path)
	if err != nil {
		common.LogError(err, "Invoice processing failed", common.Fields{"file": name})
		w.move(path, w.failed)
		return
	}

	common.LogInfo("Invoice processed", common.Fields{
		"file":      name,
		"invoice":   decision.InvoiceNumber,
		"outcome":   decision.Outcome,
		"anomalies": len(decision.Anomalies),
	})
	w.move(path, w.processed)
}

// move relocates a document, logging rather than failing if the move
// itself cannot complete.
func (w *Watcher) move(path, destDir string) {
	dest := filepath.Join(destDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		slog.Error("Could not move document", "file", path, "dest", dest, "error", err)
	}
}
