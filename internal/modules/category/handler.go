package category

import (
	"errors"
	"net/http"
	"strconv"

	"equipreg/internal/pkg/response"
	"equipreg/internal/pkg/validator"
	"equipreg/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /api/v1/categories. Returns a bare array, each entry
// carrying its referencing-equipment count.
func (h *Handler) List(c *gin.Context) {
	f := repository.CategoryFilters{
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sortBy", "name"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}

	categories, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, categories)
}

// Create handles POST /api/v1/categories (admin)
func (h *Handler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ValidationError(c, fields)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"category": created})
}

// Update handles PUT /api/v1/categories/:id (admin)
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	if fields := validator.Validate(req); fields != nil {
		response.ValidationError(c, fields)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"category": updated})
}

// Delete handles DELETE /api/v1/categories/:id (admin)
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// RegisterRoutes registers read routes (authenticated users).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/categories", h.List)
}

// RegisterAdminRoutes registers mutation routes (admin role).
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	categories := r.Group("/categories")
	{
		categories.POST("", h.Create)
		categories.PUT("/:id", h.Update)
		categories.DELETE("/:id", h.Delete)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Category not found")
	case errors.Is(err, ErrDuplicateName):
		response.Error(c, http.StatusConflict, "CONFLICT", "Category with this name already exists")
	case errors.Is(err, ErrInUse):
		response.Error(c, http.StatusConflict, "CATEGORY_IN_USE", "Category is referenced by equipment and cannot be deleted")
	case errors.Is(err, ErrInvalidSort):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported sort field")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
