package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	csvparse "github.com/mbradford/expense-tracker/internal/csv"
	"github.com/mbradford/expense-tracker/internal/service"
)

// UploadHandler handles statement file uploads
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadStatement imports a statement CSV from a multipart form. The form
// field is named "file".
func (h *UploadHandler) UploadStatement(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "A statement file is required"},
		})
	}
	if fileHeader.Size > csvparse.MaxStatementSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "Statement file is too large"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	summary, err := h.uploadService.ProcessStatement(c.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, csvparse.ErrInvalidStatement) {
			return NewValidationError(c, err.Error(), nil)
		}
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
