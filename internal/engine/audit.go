package engine

import (
	"time"

	"github.com/kinman1313/invoice-processor/internal/model"
)

// auditRecorder accumulates the explainability trail for one decision run.
// Entries are appended in invocation order and the trail is complete even
// when the outcome is rejected.
type auditRecorder struct {
	now   func() time.Time
	trail []model.AuditEntry
}

func newAuditRecorder(now func() time.Time) *auditRecorder {
	return &auditRecorder{now: now}
}

func (a *auditRecorder) record(step, input, output string) {
	a.trail = append(a.trail, model.AuditEntry{
		Step:      step,
		Input:     input,
		Output:    output,
		Timestamp: a.now().UTC(),
	})
}

func (a *auditRecorder) entries() []model.AuditEntry {
	return a.trail
}
