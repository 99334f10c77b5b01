package noop

import (
	"context"
	"log/slog"

	"expensedesk/internal/email"
	"expensedesk/internal/port"
)

type noopSender struct {
	appURL string
}

// NewNoopSender creates an EmailSender that renders receipts and logs them
// instead of sending.
func NewNoopSender(appURL string) port.EmailSender {
	return &noopSender{appURL: appURL}
}

func (s *noopSender) SendSubmissionReceipt(ctx context.Context, input port.ReceiptInput) error {
	r, err := email.RenderReceipt(input, s.appURL, "Expense Desk")
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "noopEmail: submission receipt",
		"to", input.ToEmail, "subject", r.Subject, "reference", input.Reference)
	slog.DebugContext(ctx, "noopEmail: body", "text", r.Text)
	return nil
}
