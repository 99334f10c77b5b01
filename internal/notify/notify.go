// Package notify delivers user-facing notices. Notices are fire-and-forget:
// delivery never fails the operation that raised them.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

type logNotifier struct{}

// NewLogNotifier returns a Notifier that writes notices to the log and
// forwards them to the request's Collector when the context carries one.
func NewLogNotifier() port.Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(ctx context.Context, kind domain.NoticeKind, message string) {
	level := slog.LevelInfo
	if kind == domain.NoticeWarning || kind == domain.NoticeError {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "notify: "+message, "kind", kind)
	if c := FromContext(ctx); c != nil {
		c.Notify(ctx, kind, message)
	}
}

// Collector gathers the notices raised while serving one request.
type Collector struct {
	mu      sync.Mutex
	notices []domain.Notice
}

// Notify records a notice.
func (c *Collector) Notify(_ context.Context, kind domain.NoticeKind, message string) {
	c.mu.Lock()
	c.notices = append(c.notices, domain.Notice{Kind: kind, Message: message})
	c.mu.Unlock()
}

// Notices returns the notices collected so far.
func (c *Collector) Notices() []domain.Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Notice(nil), c.notices...)
}

type collectorKey struct{}

// WithCollector returns a context that routes notices to c.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// FromContext returns the request's Collector, or nil.
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(collectorKey{}).(*Collector)
	return c
}
