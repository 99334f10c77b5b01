package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"expensedesk/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSubmissionReceipt(ctx context.Context, input port.ReceiptInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
