package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mbradford/expense-tracker/internal/service"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetExpensesByAccount returns expenses grouped by account for an arbitrary
// date range
func (h *ReportHandler) GetExpensesByAccount(c echo.Context) error {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	report, err := h.reportService.ExpensesByAccount(c.Request().Context(), filter)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// GetMonthlyReport returns the by-account report for one statement month
func (h *ReportHandler) GetMonthlyReport(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "year", Message: "Year must be a number"},
		})
	}

	month := c.Param("month")
	if _, err := service.ParseMonth(month); err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	report, err := h.reportService.MonthlyReport(c.Request().Context(), month, year)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
