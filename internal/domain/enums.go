package domain

// FileType represents the allowed file types for attachments.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// UserRole defines what a user may access.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleFaculty UserRole = "faculty"
)

// ValidRoles lists every assignable role.
var ValidRoles = map[UserRole]bool{
	RoleAdmin:   true,
	RoleFaculty: true,
}

// FormKind identifies a form session type.
type FormKind string

const (
	FormProfile           FormKind = "profile"
	FormBasicDetails      FormKind = "basic-details"
	FormApplication       FormKind = "application"
	FormAdvanceSettlement FormKind = "advance-settlement"
	FormWithBill          FormKind = "with-bill"
	FormWithoutBill       FormKind = "without-bill"
)

// Mode is the editing state of an open form session.
type Mode string

const (
	ModeReadOnly Mode = "read_only"
	ModeEditing  Mode = "editing"
)

// SubmissionStatus records the outcome of a backend submission.
type SubmissionStatus string

const (
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// NoticeKind classifies a user-facing notification.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)
