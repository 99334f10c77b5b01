package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"expensedesk/internal/domain"
	"expensedesk/internal/handler"
	"expensedesk/internal/service"
	"expensedesk/mocks"
)

func TestUserHandler_Create(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)

	input := service.CreateUserInput{
		Email:    "new@college.edu",
		Password: "password123",
		FullName: "New Faculty",
		Role:     domain.RoleFaculty,
	}
	svc.On("Create", mock.Anything, input).Return(&domain.User{ID: uuid.New(), Email: input.Email, Role: input.Role}, nil)

	body, _ := json.Marshal(input)
	w, c := newFormContext(http.MethodPost, "/api/v1/admin/users", bytes.NewReader(body), uuid.New())
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Create_DuplicateEmail(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)

	svc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateUserInput")).Return(nil, domain.ErrDuplicateEmail)

	body, _ := json.Marshal(map[string]string{
		"email": "dup@college.edu", "password": "password123", "full_name": "Dup", "role": "faculty",
	})
	w, c := newFormContext(http.MethodPost, "/api/v1/admin/users", bytes.NewReader(body), uuid.New())
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode(t, w).Error.Code)
}

func TestUserHandler_List_ClampsLimit(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)

	svc.On("List", mock.Anything, 0, 20).Return([]domain.User{{ID: uuid.New()}}, 1, nil)

	w, c := newFormContext(http.MethodGet, "/api/v1/admin/users?limit=500&offset=-3", nil, uuid.New())
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	require.NotNil(t, resp.Meta.PagMeta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
	svc.AssertExpectations(t)
}

func TestUserHandler_Me(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)
	userID := uuid.New()

	svc.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "me@college.edu"}, nil)

	w, c := newFormContext(http.MethodGet, "/api/v1/me", nil, userID)
	h.Me(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Update_SelfLockout(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)
	adminID := uuid.New()

	svc.On("Update", mock.Anything, adminID, adminID, mock.Anything).Return(nil, domain.ErrSelfLockout)

	body, _ := json.Marshal(map[string]bool{"is_active": false})
	w, c := newFormContext(http.MethodPut, "/api/v1/admin/users/"+adminID.String(), bytes.NewReader(body), adminID,
		gin.Param{Key: "id", Value: adminID.String()})
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SELF_LOCKOUT", decode(t, w).Error.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Update(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)
	actor := uuid.New()
	target := uuid.New()

	svc.On("Update", mock.Anything, actor, target, mock.MatchedBy(func(in service.UpdateUserInput) bool {
		return in.IsActive != nil && !*in.IsActive
	})).Return(&domain.User{ID: target}, nil)

	body, _ := json.Marshal(map[string]bool{"is_active": false})
	w, c := newFormContext(http.MethodPut, "/api/v1/admin/users/"+target.String(), bytes.NewReader(body), actor,
		gin.Param{Key: "id", Value: target.String()})
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Update_ShortPassword(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)
	target := uuid.New()

	body, _ := json.Marshal(map[string]string{"password": "short"})
	w, c := newFormContext(http.MethodPut, "/api/v1/admin/users/"+target.String(), bytes.NewReader(body), uuid.New(),
		gin.Param{Key: "id", Value: target.String()})
	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockUserService)
	h := handler.NewUserHandler(svc)

	w, c := newFormContext(http.MethodGet, "/api/v1/admin/users/nope", nil, uuid.New(), gin.Param{Key: "id", Value: "nope"})
	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}
