package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/service"
	"expensedesk/mocks"
)

func TestAdminService_Summary(t *testing.T) {
	subs := new(mocks.MockSubmissionRepo)
	users := new(mocks.MockUserRepo)
	svc := service.NewAdminService(form.NewRegistry(), subs, users)

	subs.On("CountByKind", mock.Anything).Return([]domain.SubmissionCount{
		{FormKind: domain.FormWithBill, Status: domain.SubmissionSucceeded, Count: 2},
		{FormKind: domain.FormWithoutBill, Status: domain.SubmissionSucceeded, Count: 3},
		{FormKind: domain.FormWithoutBill, Status: domain.SubmissionFailed, Count: 1},
		{FormKind: domain.FormApplication, Status: domain.SubmissionSucceeded, Count: 4},
		{FormKind: "retired-kind", Status: domain.SubmissionSucceeded, Count: 9},
	}, nil)
	users.On("Count", mock.Anything).Return(7, nil)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalUsers)
	assert.Equal(t, domain.CategoryStats{Submitted: 5, Failed: 1}, summary.Categories[form.CategoryExpenseReimbursement])
	assert.Equal(t, domain.CategoryStats{Submitted: 4}, summary.Categories[form.CategoryApplication])
	assert.Equal(t, domain.CategoryStats{}, summary.Categories[form.CategoryAdvanceSettlement])
}

func TestAdminService_Summary_RepoError(t *testing.T) {
	subs := new(mocks.MockSubmissionRepo)
	subs.On("CountByKind", mock.Anything).Return(nil, errors.New("db down"))

	_, err := service.NewAdminService(form.NewRegistry(), subs, new(mocks.MockUserRepo)).Summary(context.Background())

	assert.Error(t, err)
}
