package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"expensedesk/internal/domain"
	"expensedesk/internal/form"
	"expensedesk/internal/service"
)

// FormHandler handles form session endpoints.
type FormHandler struct {
	formService service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// SchemaView describes a form kind to the client.
type SchemaView struct {
	Kind        domain.FormKind `json:"kind"`
	Title       string          `json:"title"`
	Fields      []form.Field    `json:"fields"`
	RowFields   []form.Field    `json:"rowFields,omitempty"`
	Submittable bool            `json:"submittable"`
}

// SetFieldsRequest is the body of PATCH /forms/:kind/fields.
type SetFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

// RowFieldRequest is the body of PATCH /forms/:kind/rows/:index.
type RowFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// CustomFieldRequest is the body of the custom field endpoints.
type CustomFieldRequest struct {
	Label string `json:"label" binding:"required,max=200"`
	Value string `json:"value"`
}

type documentQuery struct {
	Format    string  `form:"format"`
	PageSize  string  `form:"page_size" binding:"omitempty,oneof=A4 Letter"`
	Scale     int     `form:"scale" binding:"omitempty,min=1,max=4"`
	Landscape bool    `form:"landscape"`
	MarginMM  float64 `form:"margin" binding:"omitempty,min=0,max=50"`
	FileName  string  `form:"file_name" binding:"omitempty,max=120"`
}

type customFieldView struct {
	*service.FormView
	FieldID string `json:"fieldId"`
}

// Home handles GET /api/v1/home
func (h *FormHandler) Home(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	view, err := h.formService.Home(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// List handles GET /api/v1/forms
func (h *FormHandler) List(c *gin.Context) {
	schemas := h.formService.Forms()
	out := make([]SchemaView, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, SchemaView{
			Kind:        s.Kind,
			Title:       s.Title,
			Fields:      s.Fields,
			RowFields:   s.RowFields,
			Submittable: s.SubmitPath != "",
		})
	}
	RespondOK(c, out)
}

// Get handles GET /api/v1/forms/:kind
func (h *FormHandler) Get(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.View(c.Request.Context(), userID, kind)
	})
}

// SetFields handles PATCH /api/v1/forms/:kind/fields
func (h *FormHandler) SetFields(c *gin.Context) {
	var req SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.SetFields(c.Request.Context(), userID, kind, req.Fields)
	})
}

// AddRow handles POST /api/v1/forms/:kind/rows
func (h *FormHandler) AddRow(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.AddRow(c.Request.Context(), userID, kind)
	})
}

// UpdateRow handles PATCH /api/v1/forms/:kind/rows/:index
func (h *FormHandler) UpdateRow(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}
	var req RowFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.UpdateRow(c.Request.Context(), userID, kind, index, req.Field, req.Value)
	})
}

// RemoveRow handles DELETE /api/v1/forms/:kind/rows/:index
func (h *FormHandler) RemoveRow(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.RemoveRow(c.Request.Context(), userID, kind, index)
	})
}

// Attach handles PUT /api/v1/forms/:kind/rows/:index/attachment
func (h *FormHandler) Attach(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.FileUploadInput{File: file, FileName: header.Filename, Size: header.Size}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Attach(c.Request.Context(), userID, kind, index, input)
	})
}

// Detach handles DELETE /api/v1/forms/:kind/rows/:index/attachment
func (h *FormHandler) Detach(c *gin.Context) {
	index, ok := rowIndex(c)
	if !ok {
		return
	}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Detach(c.Request.Context(), userID, kind, index)
	})
}

// SetAvatar handles PUT /api/v1/forms/profile/avatar
func (h *FormHandler) SetAvatar(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	view, err := h.formService.SetAvatar(c.Request.Context(), userID, service.FileUploadInput{
		File:     file,
		FileName: header.Filename,
		Size:     header.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// AddCustomField handles POST /api/v1/forms/:kind/custom-fields
func (h *FormHandler) AddCustomField(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var req CustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, id, err := h.formService.AddCustomField(c.Request.Context(), userID, domain.FormKind(c.Param("kind")), req.Label, req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, customFieldView{FormView: view, FieldID: id})
}

// UpdateCustomField handles PATCH /api/v1/forms/:kind/custom-fields/:id
func (h *FormHandler) UpdateCustomField(c *gin.Context) {
	var req CustomFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.UpdateCustomField(c.Request.Context(), userID, kind, c.Param("id"), req.Label, req.Value)
	})
}

// RemoveCustomField handles DELETE /api/v1/forms/:kind/custom-fields/:id
func (h *FormHandler) RemoveCustomField(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.RemoveCustomField(c.Request.Context(), userID, kind, c.Param("id"))
	})
}

// Edit handles POST /api/v1/forms/:kind/edit
func (h *FormHandler) Edit(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Edit(c.Request.Context(), userID, kind)
	})
}

// Save handles POST /api/v1/forms/:kind/save
func (h *FormHandler) Save(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Save(c.Request.Context(), userID, kind)
	})
}

// Cancel handles POST /api/v1/forms/:kind/cancel
func (h *FormHandler) Cancel(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Cancel(c.Request.Context(), userID, kind)
	})
}

// Submit handles POST /api/v1/forms/:kind/submit
func (h *FormHandler) Submit(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Submit(c.Request.Context(), userID, kind)
	})
}

// Delete handles DELETE /api/v1/forms/:kind
func (h *FormHandler) Delete(c *gin.Context) {
	h.run(c, func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error) {
		return h.formService.Delete(c.Request.Context(), userID, kind)
	})
}

// Close handles POST /api/v1/forms/:kind/close
func (h *FormHandler) Close(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	h.formService.Close(c.Request.Context(), userID, domain.FormKind(c.Param("kind")))
	RespondOK(c, gin.H{"message": "form closed"})
}

// Document handles GET /api/v1/forms/:kind/document
func (h *FormHandler) Document(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}
	var q documentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	doc, err := h.formService.Document(c.Request.Context(), userID, domain.FormKind(c.Param("kind")), service.DocumentInput{
		Format: q.Format,
		Options: domain.RenderOptions{
			PageSize:  q.PageSize,
			Landscape: q.Landscape,
			MarginMM:  q.MarginMM,
			Scale:     q.Scale,
			FileName:  q.FileName,
		},
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// Preview handles GET /api/v1/previews/:token
func (h *FormHandler) Preview(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	url, err := h.formService.PreviewURL(c.Request.Context(), userID, c.Param("token"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, url)
}

// Submissions handles GET /api/v1/submissions
func (h *FormHandler) Submissions(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	subs, total, err := h.formService.Submissions(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

func (h *FormHandler) run(c *gin.Context, fn func(userID uuid.UUID, kind domain.FormKind) (*service.FormView, error)) {
	userID, ok := extractUserID(c)
	if !ok {
		return
	}

	view, err := fn(userID, domain.FormKind(c.Param("kind")))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

func rowIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "row index must be an integer")
		return 0, false
	}
	return index, true
}
