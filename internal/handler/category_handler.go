package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/service"
)

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the create category request body
type CreateCategoryRequest struct {
	Name      string   `json:"name"`
	AccountID string   `json:"accountId"`
	CardName  string   `json:"cardName"`
	Labels    []string `json:"labels"`
}

// UpdateCategoryRequest carries the mutable category fields; omitted fields
// are left unchanged
type UpdateCategoryRequest struct {
	Labels *[]string `json:"labels"`
	Active *bool     `json:"active"`
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name, req.AccountID, req.CardName, req.Labels)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// GetCategory returns one category by name
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categoryService.GetCategory(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

// GetCategories returns categories in creation order
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories(c.Request().Context(), c.QueryParam("accountId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

// UpdateCategory updates a category's labels and/or active flag
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), c.Param("name"), domain.CategoryUpdate{
		Labels: req.Labels,
		Active: req.Active,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}
