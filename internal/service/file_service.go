package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"expensedesk/internal/config"
	"expensedesk/internal/domain"
	"expensedesk/internal/ledger"
	"expensedesk/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	File     io.ReadSeeker
	FileName string
	Size     int64
}

// FileService stores bill attachments and converts avatars to data URLs.
type FileService interface {
	UploadAttachment(ctx context.Context, userID uuid.UUID, kind domain.FormKind, input FileUploadInput) (*domain.FileRef, error)
	Discard(ctx context.Context, objectKey string)
	AvatarDataURL(ctx context.Context, input FileUploadInput) (string, error)
	PresignedURL(ctx context.Context, objectKey string) (string, error)
}

type fileService struct {
	blobs          port.BlobStore
	maxFileBytes   int64
	maxAvatarBytes int64
	previewTTL     time.Duration
}

// NewFileService creates a new FileService implementation.
func NewFileService(blobs port.BlobStore, cfg *config.S3Config, maxAvatarKB int64) FileService {
	return &fileService{
		blobs:          blobs,
		maxFileBytes:   cfg.MaxFileSizeMB * 1024 * 1024,
		maxAvatarBytes: maxAvatarKB * 1024,
		previewTTL:     time.Duration(cfg.PresignExpiry) * time.Second,
	}
}

func (s *fileService) UploadAttachment(ctx context.Context, userID uuid.UUID, kind domain.FormKind, input FileUploadInput) (*domain.FileRef, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	if input.Size > s.maxFileBytes {
		return nil, domain.ErrFileTooLarge
	}

	// The stored type comes from the content, not the name.
	contentType, err := sniff(input.File)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(input.FileName)
	key := fmt.Sprintf("users/%s/forms/%s/%s/%s", userID, kind, uuid.New(), name)

	slog.InfoContext(ctx, "fileService.UploadAttachment: uploading",
		"file", name, "content_type", contentType, "size", input.Size, "user_id", userID)

	stored, err := s.blobs.Put(ctx, port.Blob{
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		FileName:    name,
		Size:        input.Size,
		Owner:       userID.String(),
		Form:        string(kind),
	})
	if err != nil {
		slog.ErrorContext(ctx, "fileService.UploadAttachment: blob upload failed", "key", key, "error", err)
		return nil, domain.ErrUploadFailed
	}

	return &domain.FileRef{
		Name:        name,
		Size:        input.Size,
		ContentType: contentType,
		ObjectKey:   stored.Key,
	}, nil
}

func (s *fileService) Discard(ctx context.Context, objectKey string) {
	if err := s.blobs.Remove(ctx, objectKey); err != nil {
		slog.WarnContext(ctx, "fileService.Discard: delete failed", "key", objectKey, "error", err)
	}
}

func (s *fileService) AvatarDataURL(ctx context.Context, input FileUploadInput) (string, error) {
	if input.Size > s.maxAvatarBytes {
		return "", domain.ErrFileTooLarge
	}
	detected, err := sniff(input.File)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			return "", domain.ErrAttachmentType
		}
		return "", err
	}
	if !ledger.IsImage(detected) {
		return "", domain.ErrAttachmentType
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(input.File, s.maxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading avatar: %w", err)
	}
	if n > s.maxAvatarBytes {
		return "", domain.ErrFileTooLarge
	}

	slog.DebugContext(ctx, "fileService.AvatarDataURL: encoded avatar", "content_type", detected, "size", n)
	return "data:" + detected + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *fileService) PresignedURL(ctx context.Context, objectKey string) (string, error) {
	return s.blobs.SignedURL(ctx, objectKey, s.previewTTL)
}

// sniff detects the content type from the first 512 bytes and rewinds.
func sniff(f io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	detected := http.DetectContentType(buf[:n])
	if _, ok := domain.AllowedContentTypes[detected]; !ok {
		return "", domain.ErrUnsupportedFileType
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}
	return detected, nil
}
