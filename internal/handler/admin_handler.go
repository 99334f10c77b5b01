package handler

import (
	"github.com/gin-gonic/gin"

	"expensedesk/internal/service"
)

// AdminHandler handles the administrator overview.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Summary handles GET /api/v1/admin/summary
func (h *AdminHandler) Summary(c *gin.Context) {
	summary, err := h.adminService.Summary(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}
