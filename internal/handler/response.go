package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/middleware"
	"expensedesk/internal/notify"
)

// APIResponse wraps every body the API writes, success or failure.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    any         `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError holds error details in the response. Field names the form field
// that failed validation, when there is one.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Meta carries pagination and the notices raised while serving the request.
type Meta struct {
	*PagMeta
	Notices []domain.Notice `json:"notices,omitempty"`
}

func RespondOK(c *gin.Context, data any) {
	respond(c, http.StatusOK, APIResponse{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data any) {
	respond(c, http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated reports one page of a list in meta.
func RespondPaginated(c *gin.Context, data any, meta PagMeta) {
	respond(c, http.StatusOK, APIResponse{Success: true, Data: data, Meta: &Meta{PagMeta: &meta}})
}

func RespondError(c *gin.Context, status int, code, msg string) {
	respond(c, status, APIResponse{Error: &APIError{Code: code, Message: msg}})
}

func respond(c *gin.Context, status int, resp APIResponse) {
	if collector := notify.FromContext(c.Request.Context()); collector != nil {
		if notices := collector.Notices(); len(notices) > 0 {
			if resp.Meta == nil {
				resp.Meta = &Meta{}
			}
			resp.Meta.Notices = notices
		}
	}
	c.JSON(status, resp)
}

// MapDomainError picks the status and machine-readable code for err. Unknown
// errors are a 500 with a generic message.
func MapDomainError(err error) (status int, code, msg string) {
	var verr *domain.ValidationError
	var serr *domain.SubmissionError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "VALIDATION_FAILED", verr.Reason
	case errors.As(err, &serr):
		return http.StatusBadGateway, "SUBMISSION_FAILED", serr.Message
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrSelfLockout):
		return http.StatusBadRequest, "SELF_LOCKOUT", "cannot deactivate or demote yourself"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "DUPLICATE_EMAIL", "email already exists"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrUnknownFormKind):
		return http.StatusNotFound, "UNKNOWN_FORM", "unknown form"
	case errors.Is(err, domain.ErrUnknownField):
		return http.StatusBadRequest, "UNKNOWN_FIELD", "unknown field"
	case errors.Is(err, domain.ErrReadOnly):
		return http.StatusConflict, "READ_ONLY", "form is read-only; switch to edit mode first"
	case errors.Is(err, domain.ErrOutOfRange):
		return http.StatusBadRequest, "OUT_OF_RANGE", "row index out of range"
	case errors.Is(err, domain.ErrCannotRemoveLastRow):
		return http.StatusConflict, "LAST_ROW", "cannot remove the last row"
	case errors.Is(err, domain.ErrNotTabular):
		return http.StatusBadRequest, "NOT_TABULAR", "form has no expense table"
	case errors.Is(err, domain.ErrAttachmentType):
		return http.StatusBadRequest, "NOT_AN_IMAGE", "file must be an image"
	case errors.Is(err, domain.ErrOperationInProgress):
		return http.StatusConflict, "OPERATION_IN_PROGRESS", "another operation is in progress"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict, "SESSION_CLOSED", "form session is closed"
	case errors.Is(err, domain.ErrSubmissionFailed):
		return http.StatusBadGateway, "SUBMISSION_FAILED", "submission failed"
	case errors.Is(err, domain.ErrPreviewReleased):
		return http.StatusNotFound, "PREVIEW_RELEASED", "preview is no longer available"
	case errors.Is(err, domain.ErrNotSubmittable):
		return http.StatusBadRequest, "NOT_SUBMITTABLE", "form cannot be submitted"
	case errors.Is(err, domain.ErrStorageRead), errors.Is(err, domain.ErrStorageWrite):
		return http.StatusInternalServerError, "STORAGE_ERROR", "form storage is unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractUserID extracts the authenticated user ID from the request context.
// Returns false if it is missing (error response already written).
func extractUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, false
	}
	return userID, true
}

// HandleError writes err as an error envelope; validation errors carry
// the offending field.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		slog.ErrorContext(c.Request.Context(), "handler: internal error", "request_id", requestID, "error", err)
	}
	resp := APIResponse{Success: false, Error: &APIError{Code: code, Message: msg}}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error.Field = verr.Field
	}
	respond(c, status, resp)
}
