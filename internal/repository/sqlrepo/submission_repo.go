package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"expensedesk/internal/domain"
	"expensedesk/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a SQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *domain.Submission) error {
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO submissions (id, user_id, form_kind, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.FormKind, sub.Status, sub.ErrorMessage, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		r.db.Rebind("SELECT COUNT(*) FROM submissions WHERE user_id = ?"), userID)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByUser count: %w", err)
	}

	var subs []domain.Submission
	err = r.db.SelectContext(ctx, &subs,
		r.db.Rebind("SELECT * FROM submissions WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?"),
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByUser: %w", err)
	}
	return subs, total, nil
}

func (r *submissionRepo) CountByKind(ctx context.Context) ([]domain.SubmissionCount, error) {
	var counts []domain.SubmissionCount
	err := r.db.SelectContext(ctx, &counts,
		`SELECT form_kind, status, COUNT(*) AS count FROM submissions
		 GROUP BY form_kind, status ORDER BY form_kind, status`)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.CountByKind: %w", err)
	}
	return counts, nil
}
