package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrSelfLockout         = errors.New("cannot deactivate or demote yourself")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrUnknownFormKind     = errors.New("unknown form kind")
	ErrUnknownField        = errors.New("unknown field")
	ErrValidation          = errors.New("validation failed")
	ErrReadOnly            = errors.New("session is read-only")
	ErrOutOfRange          = errors.New("row index out of range")
	ErrCannotRemoveLastRow = errors.New("cannot remove the last row")
	ErrNotTabular          = errors.New("form has no expense table")
	ErrAttachmentType      = errors.New("attachment is not an image")
	ErrOperationInProgress = errors.New("operation already in progress")
	ErrSessionClosed       = errors.New("session is closed")
	ErrSubmissionFailed    = errors.New("submission failed")
	ErrPreviewReleased     = errors.New("preview handle released")
	ErrNotSubmittable      = errors.New("form cannot be submitted")

	ErrStorageRead  = errors.New("session storage read failed")
	ErrStorageWrite = errors.New("session storage write failed")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SubmissionError carries the backend's failure message.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	return "submission failed: " + e.Message
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionFailed
}
