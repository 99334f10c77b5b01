package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents an account that can open form sessions.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SessionRecord is one persisted slot of a user's form state.
type SessionRecord struct {
	UserID    uuid.UUID `db:"user_id"`
	Key       string    `db:"record_key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Submission records one attempt to send a form to the backend.
type Submission struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	UserID       uuid.UUID        `db:"user_id" json:"user_id"`
	FormKind     FormKind         `db:"form_kind" json:"form_kind"`
	Status       SubmissionStatus `db:"status" json:"status"`
	ErrorMessage string           `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// SubmissionCount is a per-kind aggregate of submissions.
type SubmissionCount struct {
	FormKind FormKind         `db:"form_kind"`
	Status   SubmissionStatus `db:"status"`
	Count    int              `db:"count"`
}

// Totals holds the values derived from a record's rows and rate inputs.
type Totals struct {
	Sum        decimal.Decimal  `json:"sum"`
	TaxPercent decimal.Decimal  `json:"taxPercent"`
	Tax        decimal.Decimal  `json:"tax"`
	GrandTotal decimal.Decimal  `json:"grandTotal"`
	Advance    *decimal.Decimal `json:"advance,omitempty"`
	Remaining  *decimal.Decimal `json:"remaining,omitempty"`
	Excess     *decimal.Decimal `json:"excess,omitempty"`
}

// Notice is a fire-and-forget message for the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// FileRef describes an uploaded binary that is about to be attached to a row.
type FileRef struct {
	Name        string
	Size        int64
	ContentType string
	ObjectKey   string
}

// CategoryStats counts submissions of one admin category.
type CategoryStats struct {
	Submitted int `json:"submitted"`
	Failed    int `json:"failed"`
}

// AdminSummary is the administrator overview.
type AdminSummary struct {
	Categories map[string]CategoryStats `json:"categories"`
	TotalUsers int                      `json:"total_users"`
}
