package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/config"
	"expensedesk/internal/domain"
	"expensedesk/internal/port"
	"expensedesk/internal/service"
	"expensedesk/mocks"
)

var pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")

func newFileService(blobs *mocks.MockBlobStore) service.FileService {
	return service.NewFileService(blobs, &config.S3Config{
		Bucket:        "attachments",
		MaxFileSizeMB: 1,
		PresignExpiry: 120,
	}, 1)
}

func TestFileService_UploadAttachment(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	svc := newFileService(blobs)
	userID := uuid.New()

	blobs.On("Put", mock.Anything, mock.MatchedBy(func(b port.Blob) bool {
		return b.ContentType == "application/pdf" &&
			b.FileName == "taxi.pdf" &&
			b.Owner == userID.String() &&
			b.Form == "with-bill" &&
			strings.HasPrefix(b.Key, "users/"+userID.String()+"/forms/with-bill/") &&
			strings.HasSuffix(b.Key, "/taxi.pdf")
	})).Return(func(_ context.Context, b port.Blob) *port.StoredBlob {
		return &port.StoredBlob{Key: b.Key, ETag: "etag"}
	}, nil)

	ref, err := svc.UploadAttachment(context.Background(), userID, domain.FormWithBill, service.FileUploadInput{
		File:     bytes.NewReader(pdfHeader),
		FileName: "../../taxi.pdf",
		Size:     int64(len(pdfHeader)),
	})

	require.NoError(t, err)
	assert.Equal(t, "taxi.pdf", ref.Name)
	assert.Equal(t, "application/pdf", ref.ContentType)
	assert.True(t, strings.HasSuffix(ref.ObjectKey, "/taxi.pdf"))
	blobs.AssertExpectations(t)
}

func TestFileService_UploadAttachment_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input service.FileUploadInput
		want  error
	}{
		{
			name:  "extension",
			input: service.FileUploadInput{File: bytes.NewReader(pdfHeader), FileName: "bill.docx", Size: 10},
			want:  domain.ErrUnsupportedFileType,
		},
		{
			name:  "size",
			input: service.FileUploadInput{File: bytes.NewReader(pdfHeader), FileName: "bill.pdf", Size: 2 * 1024 * 1024},
			want:  domain.ErrFileTooLarge,
		},
		{
			name:  "content",
			input: service.FileUploadInput{File: strings.NewReader("just text"), FileName: "bill.pdf", Size: 9},
			want:  domain.ErrUnsupportedFileType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := new(mocks.MockBlobStore)
			_, err := newFileService(blobs).UploadAttachment(context.Background(), uuid.New(), domain.FormWithBill, tt.input)
			assert.ErrorIs(t, err, tt.want)
			blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
		})
	}
}

func TestFileService_UploadAttachment_StorageFailure(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	blobs.On("Put", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := newFileService(blobs).UploadAttachment(context.Background(), uuid.New(), domain.FormWithBill, service.FileUploadInput{
		File: bytes.NewReader(pdfHeader), FileName: "bill.pdf", Size: int64(len(pdfHeader)),
	})

	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestFileService_AvatarDataURL(t *testing.T) {
	svc := newFileService(new(mocks.MockBlobStore))
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	url, err := svc.AvatarDataURL(context.Background(), service.FileUploadInput{
		File: bytes.NewReader(png), FileName: "me.png", Size: int64(len(png)),
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}

func TestFileService_AvatarDataURL_PDF(t *testing.T) {
	svc := newFileService(new(mocks.MockBlobStore))

	_, err := svc.AvatarDataURL(context.Background(), service.FileUploadInput{
		File: bytes.NewReader(pdfHeader), FileName: "me.pdf", Size: int64(len(pdfHeader)),
	})

	assert.ErrorIs(t, err, domain.ErrAttachmentType)
}

func TestFileService_PresignedURL(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	blobs.On("SignedURL", mock.Anything, "k", 2*time.Minute).Return("https://signed", nil)

	url, err := newFileService(blobs).PresignedURL(context.Background(), "k")

	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)
}

func TestFileService_DiscardSwallowsErrors(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	blobs.On("Remove", mock.Anything, []string{"k"}).Return(errors.New("gone"))

	newFileService(blobs).Discard(context.Background(), "k")

	blobs.AssertExpectations(t)
}
