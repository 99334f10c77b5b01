package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"expensedesk/internal/domain"
)

// MockSessionRecordRepo is a mock implementation of port.SessionRecordRepository.
type MockSessionRecordRepo struct {
	mock.Mock
}

func (m *MockSessionRecordRepo) Get(ctx context.Context, userID uuid.UUID, key string) (*domain.SessionRecord, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRecordRepo) Upsert(ctx context.Context, rec *domain.SessionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockSessionRecordRepo) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	args := m.Called(ctx, userID, key)
	return args.Error(0)
}

func (m *MockSessionRecordRepo) ListKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
