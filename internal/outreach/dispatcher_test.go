package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	messages []service.OutreachMessage
	failures int
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, msg service.OutreachMessage) error {
	if d.failures > 0 {
		d.failures--
		return errors.New("transient dispatch failure")
	}
	d.messages = append(d.messages, msg)
	return nil
}

func decisionWithOutreach() *model.Decision {
	return &model.Decision{
		InvoiceNumber: "INV-1001",
		Extracted: model.ExtractedInvoice{
			VendorName: model.Field{Value: "Acme Corp", Confidence: model.ConfidenceHigh},
		},
		Anomalies: []model.ResolvedAnomaly{
			{
				Anomaly:         model.Anomaly{Kind: model.AnomalyAmountMismatch, Severity: model.SeverityCritical},
				Status:          model.ResolutionOutreachDrafted,
				OutreachMessage: "Dear Acme Corp, ...",
			},
			{
				Anomaly: model.Anomaly{Kind: model.AnomalyVendorUnknown, Severity: model.SeverityCritical},
				Status:  model.ResolutionEscalated,
			},
		},
	}
}

func TestDispatchAllSendsOnlyDraftedOutreach(t *testing.T) {
	rec := &recordingDispatcher{}

	sent, err := DispatchAll(context.Background(), rec, decisionWithOutreach())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, rec.messages, 1)
	msg := rec.messages[0]
	assert.Equal(t, "Acme Corp", msg.VendorName)
	assert.Equal(t, "INV-1001", msg.InvoiceNumber)
	assert.Equal(t, "Invoice INV-1001: amount mismatch", msg.Subject)
	assert.NotEmpty(t, msg.Body)
}

func TestDispatchAllRetriesTransientFailures(t *testing.T) {
	rec := &recordingDispatcher{failures: 2}

	sent, err := DispatchAll(context.Background(), rec, decisionWithOutreach())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, rec.messages, 1)
}

func TestDispatchAllNilInputs(t *testing.T) {
	sent, err := DispatchAll(context.Background(), nil, decisionWithOutreach())
	require.NoError(t, err)
	assert.Zero(t, sent)

	sent, err = DispatchAll(context.Background(), &recordingDispatcher{}, nil)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestLogDispatcherRejectsEmptyBody(t *testing.T) {
	err := NewLogDispatcher().Dispatch(context.Background(), service.OutreachMessage{Subject: "x"})
	require.Error(t, err)
}

func TestLogDispatcherSendsMessage(t *testing.T) {
	err := NewLogDispatcher().Dispatch(context.Background(), service.OutreachMessage{
		VendorName:    "Acme Corp",
		InvoiceNumber: "INV-1001",
		Subject:       "Invoice INV-1001: amount mismatch",
		Body:          "Dear Acme Corp, ...",
	})
	require.NoError(t, err)
}
