package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/mbradford/expense-tracker/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, apiKeyMiddleware *middleware.APIKeyMiddleware, ownerHandler *OwnerHandler, accountHandler *AccountHandler, categoryHandler *CategoryHandler, expenseHandler *ExpenseHandler, uploadHandler *UploadHandler, reportHandler *ReportHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(apiKeyMiddleware.Authenticate())

	// Owner routes
	owners := api.Group("/owners")
	owners.POST("", ownerHandler.CreateOwner)
	owners.GET("", ownerHandler.GetOwners)
	owners.GET("/:name", ownerHandler.GetOwner)

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)

	// Category routes
	categories := api.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:name", categoryHandler.GetCategory)
	categories.PUT("/:name", categoryHandler.UpdateCategory)

	// Expense routes
	expenses := api.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/search", expenseHandler.SearchExpenses)
	expenses.POST("/upload", uploadHandler.UploadStatement)
	expenses.POST("/bulk-update", expenseHandler.BulkUpdateCategory)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PATCH("/:id/category", expenseHandler.UpdateExpenseCategory)
	expenses.PATCH("/:id/card-member", expenseHandler.UpdateExpenseCardMember)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/by-account", reportHandler.GetExpensesByAccount)
	reports.GET("/monthly/:year/:month", reportHandler.GetMonthlyReport)
}
