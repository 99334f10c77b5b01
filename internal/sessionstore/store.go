// Package sessionstore persists form records for one user. Every operation
// fails soft: read problems look like an empty slot and write problems are
// logged and reported as warnings.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

// Store is a port.SessionStore backed by a SessionRecordRepository.
type Store struct {
	repo     port.SessionRecordRepository
	userID   uuid.UUID
	notifier port.Notifier
}

var _ port.SessionStore = (*Store)(nil)

// ForUser returns a store scoped to userID. notifier may be nil.
func ForUser(repo port.SessionRecordRepository, userID uuid.UUID, notifier port.Notifier) *Store {
	return &Store{repo: repo, userID: userID, notifier: notifier}
}

// Keys lists the user's stored keys in one query.
func (s *Store) Keys(ctx context.Context) []string {
	keys, err := s.repo.ListKeys(ctx, s.userID)
	if err != nil {
		slog.WarnContext(ctx, "sessionstore.Keys: list failed",
			"user_id", s.userID, "error", fmt.Errorf("%w: %v", domain.ErrStorageRead, err))
		return nil
	}
	return keys
}

// Load returns the record under key, or nil if it is missing or unreadable.
func (s *Store) Load(ctx context.Context, key string) *domain.Record {
	row, err := s.repo.Get(ctx, s.userID, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "sessionstore.Load: read failed",
				"user_id", s.userID, "key", key, "error", fmt.Errorf("%w: %v", domain.ErrStorageRead, err))
		}
		return nil
	}
	return Decode(ctx, key, []byte(row.Payload))
}

// Save overwrites the record under key. Preview handles are stripped.
func (s *Store) Save(ctx context.Context, key string, rec *domain.Record) {
	if rec == nil {
		s.Remove(ctx, key)
		return
	}
	payload, err := json.Marshal(rec.Portable())
	if err != nil {
		s.warnWrite(ctx, key, err)
		return
	}
	err = s.repo.Upsert(ctx, &domain.SessionRecord{
		UserID:    s.userID,
		Key:       key,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.warnWrite(ctx, key, err)
	}
}

// Remove deletes the record under key. Removing an absent key is a no-op.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.repo.Delete(ctx, s.userID, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.warnWrite(ctx, key, err)
	}
}

func (s *Store) warnWrite(ctx context.Context, key string, err error) {
	slog.WarnContext(ctx, "sessionstore: write failed",
		"user_id", s.userID, "key", key, "error", fmt.Errorf("%w: %v", domain.ErrStorageWrite, err))
	if s.notifier != nil {
		s.notifier.Notify(ctx, domain.NoticeWarning, "your changes could not be stored; they are kept for this session only")
	}
}

// Decode parses a stored payload, returning nil for anything malformed.
func Decode(ctx context.Context, key string, payload []byte) *domain.Record {
	if len(payload) == 0 {
		return nil
	}
	rec := domain.NewRecord()
	if err := json.Unmarshal(payload, rec); err != nil {
		slog.WarnContext(ctx, "sessionstore.Decode: malformed record",
			"key", key, "error", fmt.Errorf("%w: %v", domain.ErrStorageRead, err))
		return nil
	}
	return rec
}
