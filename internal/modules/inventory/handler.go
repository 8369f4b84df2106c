package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"equipreg/internal/pkg/response"
	"equipreg/internal/pkg/validator"
	"equipreg/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseFilters(c *gin.Context) (repository.EquipmentFilters, bool) {
	f := repository.EquipmentFilters{
		Search:    c.Query("search"),
		Room:      c.Query("room"),
		SortBy:    c.DefaultQuery("sortBy", "dateAdded"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}

	if category := c.Query("category"); category != "" {
		id, err := strconv.ParseInt(category, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid category id")
			return f, false
		}
		f.CategoryID = id
	}

	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "sortOrder must be asc or desc")
		return f, false
	}

	return f, true
}

// List handles GET /api/v1/equipment
func (h *Handler) List(c *gin.Context) {
	f, ok := parseFilters(c)
	if !ok {
		return
	}

	f.Page = 1
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			f.Page = val
		}
	}

	f.PageSize = defaultPageSize
	if pageSize := c.Query("pageSize"); pageSize != "" {
		if val, err := strconv.Atoi(pageSize); err == nil && val > 0 && val <= maxPageSize {
			f.PageSize = val
		}
	}

	result, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Get handles GET /api/v1/equipment/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"equipment": e})
}

// History handles GET /api/v1/equipment/:id/history
func (h *Handler) History(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": entries})
}

// Export handles GET /api/v1/equipment/export
func (h *Handler) Export(c *gin.Context) {
	f, ok := parseFilters(c)
	if !ok {
		return
	}

	data, filename, err := h.service.Export(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		data)
}

// Create handles POST /api/v1/equipment (admin)
func (h *Handler) Create(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ValidationError(c, fields)
		return
	}

	e, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"equipment": e})
}

// Update handles PUT /api/v1/equipment/:id (admin)
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ValidationError(c, fields)
		return
	}

	e, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"equipment": e})
}

// Delete handles DELETE /api/v1/equipment/:id (admin)
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// RegisterRoutes registers read routes (authenticated users).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	equipment := r.Group("/equipment")
	{
		equipment.GET("", h.List)
		equipment.GET("/export", h.Export)
		equipment.GET("/:id", h.Get)
		equipment.GET("/:id/history", h.History)
	}
}

// RegisterAdminRoutes registers mutation routes (admin role).
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	equipment := r.Group("/equipment")
	{
		equipment.POST("", h.Create)
		equipment.PUT("/:id", h.Update)
		equipment.DELETE("/:id", h.Delete)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid equipment ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Equipment not found")
	case errors.Is(err, ErrCategoryNotFound):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Referenced category does not exist")
	case errors.Is(err, ErrDuplicateInventoryNumber):
		response.Error(c, http.StatusConflict, "CONFLICT", "Inventory number already in use")
	case errors.Is(err, ErrInvalidSortField):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported sort field")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
