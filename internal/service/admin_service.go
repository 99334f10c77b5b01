package service

import (
	"context"
	"fmt"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/port"
)

// AdminService provides the administrator overview.
type AdminService interface {
	Summary(ctx context.Context) (*domain.AdminSummary, error)
}

type adminService struct {
	forms       *form.Registry
	submissions port.SubmissionRepository
	users       port.UserRepository
}

// NewAdminService creates a new AdminService implementation.
func NewAdminService(forms *form.Registry, submissions port.SubmissionRepository, users port.UserRepository) AdminService {
	return &adminService{forms: forms, submissions: submissions, users: users}
}

func (s *adminService) Summary(ctx context.Context) (*domain.AdminSummary, error) {
	counts, err := s.submissions.CountByKind(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.Summary: %w", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.Summary: %w", err)
	}

	summary := &domain.AdminSummary{
		Categories: map[string]domain.CategoryStats{
			form.CategoryApplication:          {},
			form.CategoryAdvanceSettlement:    {},
			form.CategoryExpenseReimbursement: {},
		},
		TotalUsers: total,
	}
	for _, c := range counts {
		schema, err := s.forms.Get(c.FormKind)
		if err != nil || schema.AdminCategory == "" {
			continue
		}
		stats := summary.Categories[schema.AdminCategory]
		switch c.Status {
		case domain.SubmissionSucceeded:
			stats.Submitted += c.Count
		case domain.SubmissionFailed:
			stats.Failed += c.Count
		}
		summary.Categories[schema.AdminCategory] = stats
	}
	return summary, nil
}
