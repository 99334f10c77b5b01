package port

import (
	"context"
	"time"
)

// ReceiptInput describes a successful form submission for the receipt email.
type ReceiptInput struct {
	ToEmail     string
	ToName      string
	FormTitle   string
	Reference   string
	SubmittedAt time.Time
	// Amounts are preformatted with two decimals; empty for forms without
	// an expense table.
	GrandTotal string
	Advance    string
	Rows       int
}

// EmailSender delivers submission receipts.
type EmailSender interface {
	SendSubmissionReceipt(ctx context.Context, input ReceiptInput) error
}
