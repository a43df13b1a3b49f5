// Package outreach provides dispatcher implementations for drafted vendor
// messages. Dispatch always happens outside the decision pipeline; a
// decision is complete whether or not its outreach ever leaves the system.
package outreach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kinman1313/invoice-processor/internal/common"
	"github.com/kinman1313/invoice-processor/internal/model"
	"github.com/kinman1313/invoice-processor/internal/service"
)

// LogDispatcher records outreach messages to the structured log instead of
// sending them anywhere. It is the default dispatcher.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs messages.
func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{logger: slog.Default()}
}

// Dispatch logs the drafted message.
func (d *LogDispatcher) Dispatch(ctx context.Context, msg service.OutreachMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.Body) == "" {
		return fmt.Errorf("%w: empty message body", common.ErrDispatchFailed)
	}

	d.logger.Info("Outreach drafted",
		"vendor", msg.VendorName,
		"invoice", msg.InvoiceNumber,
		"subject", msg.Subject,
		"body_length", len(msg.Body))
	return nil
}

// DispatchAll sends every drafted outreach message on a decision through
// the dispatcher, with retries. It returns the number of messages sent and
// the first persistent failure, if any.
func DispatchAll(ctx context.Context, dispatcher service.OutreachDispatcher, decision *model.Decision) (int, error) {
	if dispatcher == nil || decision == nil {
		return 0, nil
	}

	sent := 0
	for _, ra := range decision.Anomalies {
		if ra.Status != model.ResolutionOutreachDrafted || ra.OutreachMessage == "" {
			continue
		}
		msg := service.OutreachMessage{
			VendorName:    decision.Extracted.VendorName.Value,
			InvoiceNumber: decision.InvoiceNumber,
			Subject:       subjectFor(ra.Anomaly.Kind, decision.InvoiceNumber),
			Body:          ra.OutreachMessage,
		}
		err := common.WithRetry(ctx, func() error {
			return dispatcher.Dispatch(ctx, msg)
		}, service.RetryOptions{MaxAttempts: 3})
		if err != nil {
			return sent, fmt.Errorf("dispatching %s outreach: %w", ra.Anomaly.Kind, err)
		}
		sent++
	}
	return sent, nil
}

func subjectFor(kind model.AnomalyKind, invoiceNumber string) string {
	if invoiceNumber == "" {
		invoiceNumber = "(unnumbered)"
	}
	return fmt.Sprintf("Invoice %s: %s", invoiceNumber, strings.ReplaceAll(string(kind), "_", " "))
}
