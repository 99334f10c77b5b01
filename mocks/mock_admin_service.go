package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"expensedesk/internal/domain"
)

// MockAdminService is a mock implementation of service.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Summary(ctx context.Context) (*domain.AdminSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSummary), args.Error(1)
}
