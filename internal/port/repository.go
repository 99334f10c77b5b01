package port

import (
	"context"

	"github.com/google/uuid"

	"expensedesk/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Count(ctx context.Context) (int, error)
}

// SessionRecordRepository persists raw form-state payloads per user and key.
// Get returns domain.ErrNotFound when the slot is empty.
type SessionRecordRepository interface {
	Get(ctx context.Context, userID uuid.UUID, key string) (*domain.SessionRecord, error)
	Upsert(ctx context.Context, rec *domain.SessionRecord) error
	Delete(ctx context.Context, userID uuid.UUID, key string) error
	ListKeys(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// SubmissionRepository records backend submission attempts.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.Submission) error
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error)
	CountByKind(ctx context.Context) ([]domain.SubmissionCount, error)
}
