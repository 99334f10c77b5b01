package port

import (
	"context"

	"expensedesk/internal/domain"
)

// SessionStore reads and writes named records for one user. Load returns
// nil for anything missing or unreadable; Save and Remove never fail the
// caller. Keys lists the occupied slots, empty when the listing fails.
type SessionStore interface {
	Keys(ctx context.Context) []string
	Load(ctx context.Context, key string) *domain.Record
	Save(ctx context.Context, key string, rec *domain.Record)
	Remove(ctx context.Context, key string)
}
