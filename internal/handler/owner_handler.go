package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mbradford/expense-tracker/internal/service"
)

// OwnerHandler handles owner-related HTTP requests
type OwnerHandler struct {
	ownerService *service.OwnerService
}

// NewOwnerHandler creates a new OwnerHandler
func NewOwnerHandler(ownerService *service.OwnerService) *OwnerHandler {
	return &OwnerHandler{ownerService: ownerService}
}

// CreateOwnerRequest represents the create owner request body
type CreateOwnerRequest struct {
	Name     string `json:"name"`
	CardName string `json:"cardName"`
}

// CreateOwner creates a new owner
func (h *OwnerHandler) CreateOwner(c echo.Context) error {
	var req CreateOwnerRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	owner, err := h.ownerService.CreateOwner(c.Request().Context(), req.Name, req.CardName)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, owner)
}

// GetOwner returns one owner by name
func (h *OwnerHandler) GetOwner(c echo.Context) error {
	owner, err := h.ownerService.GetOwner(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, owner)
}

// GetOwners returns all owners
func (h *OwnerHandler) GetOwners(c echo.Context) error {
	owners, err := h.ownerService.GetOwners(c.Request().Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, owners)
}
