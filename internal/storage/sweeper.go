// Package storage holds helpers shared by the blob store backends.
package storage

import (
	"context"
	"log/slog"

	"expensedesk/internal/port"
)

// Sweeper deletes attachment blobs that no stored form references anymore.
// Failures are logged and never reach the caller.
type Sweeper struct {
	blobs port.BlobStore
}

// NewSweeper creates a Sweeper over blobs.
func NewSweeper(blobs port.BlobStore) *Sweeper {
	return &Sweeper{blobs: blobs}
}

// Sweep removes keys in a single batch.
func (s *Sweeper) Sweep(ctx context.Context, objectKeys []string) {
	if len(objectKeys) == 0 {
		return
	}
	if err := s.blobs.Remove(ctx, objectKeys...); err != nil {
		slog.WarnContext(ctx, "storage.Sweep: remove failed", "keys", len(objectKeys), "error", err)
		return
	}
	slog.DebugContext(ctx, "storage.Sweep: removed orphaned blobs", "keys", objectKeys)
}
