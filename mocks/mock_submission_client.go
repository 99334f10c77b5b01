package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSubmissionClient is a mock implementation of port.SubmissionClient.
type MockSubmissionClient struct {
	mock.Mock
}

func (m *MockSubmissionClient) Submit(ctx context.Context, path string, payload interface{}) error {
	args := m.Called(ctx, path, payload)
	return args.Error(0)
}
