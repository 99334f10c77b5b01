package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

type sessionRecordRepo struct {
	db *sqlx.DB
}

// NewSessionRecordRepo creates a SQL-backed SessionRecordRepository.
func NewSessionRecordRepo(db *sqlx.DB) port.SessionRecordRepository {
	return &sessionRecordRepo{db: db}
}

func (r *sessionRecordRepo) Get(ctx context.Context, userID uuid.UUID, key string) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	err := r.db.GetContext(ctx, &rec,
		r.db.Rebind("SELECT user_id, record_key, payload, updated_at FROM session_records WHERE user_id = ? AND record_key = ?"),
		userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("sessionRecordRepo.Get: %w", err)
	}
	return &rec, nil
}

func (r *sessionRecordRepo) Upsert(ctx context.Context, rec *domain.SessionRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO session_records (user_id, record_key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, record_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, rec.UserID, rec.Key, rec.Payload, rec.UpdatedAt); err != nil {
		return fmt.Errorf("sessionRecordRepo.Upsert: %w", err)
	}
	return nil
}

func (r *sessionRecordRepo) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("DELETE FROM session_records WHERE user_id = ? AND record_key = ?"), userID, key)
	if err != nil {
		return fmt.Errorf("sessionRecordRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRecordRepo) ListKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var keys []string
	err := r.db.SelectContext(ctx, &keys,
		r.db.Rebind("SELECT record_key FROM session_records WHERE user_id = ? ORDER BY record_key"), userID)
	if err != nil {
		return nil, fmt.Errorf("sessionRecordRepo.ListKeys: %w", err)
	}
	return keys, nil
}
