package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"expensedesk/internal/domain"
	"expensedesk/internal/handler"
	"expensedesk/mocks"
)

func TestAdminHandler_Summary(t *testing.T) {
	svc := new(mocks.MockAdminService)
	h := handler.NewAdminHandler(svc)

	svc.On("Summary", mock.Anything).Return(&domain.AdminSummary{
		Categories: map[string]domain.CategoryStats{
			"expenseReimbursement": {Submitted: 4, Failed: 1},
		},
		TotalUsers: 7,
	}, nil)

	w, c := newFormContext(http.MethodGet, "/api/v1/admin/summary", nil, uuid.New())
	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.EqualValues(t, 7, data["total_users"])
}

func TestAdminHandler_Summary_InternalError(t *testing.T) {
	svc := new(mocks.MockAdminService)
	h := handler.NewAdminHandler(svc)

	svc.On("Summary", mock.Anything).Return(nil, errors.New("db down"))

	w, c := newFormContext(http.MethodGet, "/api/v1/admin/summary", nil, uuid.New())
	h.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "db down")
}
