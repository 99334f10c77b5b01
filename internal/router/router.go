package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"expensedesk/internal/domain"
	"expensedesk/internal/handler"
	"expensedesk/internal/middleware"
	"expensedesk/internal/service"
)

// Handlers bundles the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Form   *handler.FormHandler
	User   *handler.UserHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string, loginLimiter *limiter.Limiter) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Notices())

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	if loginLimiter != nil {
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Auth.Login)
	} else {
		auth.POST("/login", h.Auth.Login)
	}
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/me", h.User.Me)
	protected.GET("/home", h.Form.Home)
	protected.GET("/previews/:token", h.Form.Preview)
	protected.GET("/submissions", h.Form.Submissions)

	forms := protected.Group("/forms")
	forms.GET("", h.Form.List)
	forms.PUT("/profile/avatar", h.Form.SetAvatar)
	forms.GET("/:kind", h.Form.Get)
	forms.DELETE("/:kind", h.Form.Delete)
	forms.PATCH("/:kind/fields", h.Form.SetFields)
	forms.POST("/:kind/rows", h.Form.AddRow)
	forms.PATCH("/:kind/rows/:index", h.Form.UpdateRow)
	forms.DELETE("/:kind/rows/:index", h.Form.RemoveRow)
	forms.PUT("/:kind/rows/:index/attachment", h.Form.Attach)
	forms.DELETE("/:kind/rows/:index/attachment", h.Form.Detach)
	forms.POST("/:kind/custom-fields", h.Form.AddCustomField)
	forms.PATCH("/:kind/custom-fields/:id", h.Form.UpdateCustomField)
	forms.DELETE("/:kind/custom-fields/:id", h.Form.RemoveCustomField)
	forms.POST("/:kind/edit", h.Form.Edit)
	forms.POST("/:kind/save", h.Form.Save)
	forms.POST("/:kind/cancel", h.Form.Cancel)
	forms.POST("/:kind/submit", h.Form.Submit)
	forms.POST("/:kind/close", h.Form.Close)
	forms.GET("/:kind/document", h.Form.Document)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/summary", h.Admin.Summary)
	admin.POST("/users", h.User.Create)
	admin.GET("/users", h.User.List)
	admin.GET("/users/:id", h.User.GetByID)
	admin.PUT("/users/:id", h.User.Update)

	return r
}
