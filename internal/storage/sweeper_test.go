package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"expensedesk/internal/storage"
	"expensedesk/mocks"
)

func TestSweeper_RemovesKeysInOneBatch(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	blobs.On("Remove", mock.Anything, []string{"a", "b"}).Return(nil)

	storage.NewSweeper(blobs).Sweep(context.Background(), []string{"a", "b"})

	blobs.AssertNumberOfCalls(t, "Remove", 1)
	blobs.AssertExpectations(t)
}

func TestSweeper_SwallowsErrors(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	blobs.On("Remove", mock.Anything, []string{"a"}).Return(errors.New("s3 down"))

	storage.NewSweeper(blobs).Sweep(context.Background(), []string{"a"})

	blobs.AssertExpectations(t)
}

func TestSweeper_NoKeys(t *testing.T) {
	blobs := new(mocks.MockBlobStore)

	storage.NewSweeper(blobs).Sweep(context.Background(), nil)

	blobs.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}
