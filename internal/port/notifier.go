package port

import (
	"context"

	"expensedesk/internal/domain"
)

// Notifier delivers a user-facing notice. It must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, kind domain.NoticeKind, message string)
}
