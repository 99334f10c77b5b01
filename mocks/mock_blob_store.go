package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"expensedesk/internal/port"
)

// MockBlobStore is a mock implementation of port.BlobStore.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, blob port.Blob) (*port.StoredBlob, error) {
	args := m.Called(ctx, blob)
	if fn, ok := args.Get(0).(func(context.Context, port.Blob) *port.StoredBlob); ok {
		return fn(ctx, blob), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.StoredBlob), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockBlobStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
