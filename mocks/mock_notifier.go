package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"expensedesk/internal/domain"
)

// MockNotifier is a mock implementation of port.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind domain.NoticeKind, message string) {
	m.Called(ctx, kind, message)
}
