package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/service"
)

// MockFormService is a mock implementation of service.FormService.
type MockFormService struct {
	mock.Mock
}

func (m *MockFormService) Forms() []*form.Schema {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*form.Schema)
}

func (m *MockFormService) View(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) SetFields(ctx context.Context, userID uuid.UUID, kind domain.FormKind, fields map[string]string) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) AddRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) UpdateRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, field, value string) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, index, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) RemoveRow(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Attach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int, input service.FileUploadInput) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, index, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Detach(ctx context.Context, userID uuid.UUID, kind domain.FormKind, index int) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) SetAvatar(ctx context.Context, userID uuid.UUID, input service.FileUploadInput) (*service.FormView, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) UpdateCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id, label, value string) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, id, label, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) RemoveCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, id string) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Edit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Save(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Cancel(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Delete(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) Submit(ctx context.Context, userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormView), args.Error(1)
}

func (m *MockFormService) AddCustomField(ctx context.Context, userID uuid.UUID, kind domain.FormKind, label, value string) (*service.FormView, string, error) {
	args := m.Called(ctx, userID, kind, label, value)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*service.FormView), args.String(1), args.Error(2)
}

func (m *MockFormService) Close(ctx context.Context, userID uuid.UUID, kind domain.FormKind) {
	m.Called(ctx, userID, kind)
}

func (m *MockFormService) Document(ctx context.Context, userID uuid.UUID, kind domain.FormKind, input service.DocumentInput) (*service.RenderedDocument, error) {
	args := m.Called(ctx, userID, kind, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RenderedDocument), args.Error(1)
}

func (m *MockFormService) PreviewURL(ctx context.Context, userID uuid.UUID, token string) (string, error) {
	args := m.Called(ctx, userID, token)
	return args.String(0), args.Error(1)
}

func (m *MockFormService) Home(ctx context.Context, userID uuid.UUID) (*service.HomeView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HomeView), args.Error(1)
}

func (m *MockFormService) Submissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}
