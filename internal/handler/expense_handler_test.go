package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/mbradford/expense-tracker/internal/domain"
	"github.com/mbradford/expense-tracker/internal/service"
	"github.com/mbradford/expense-tracker/internal/testutil"
)

func newExpenseHandlerFixture(t *testing.T) (*ExpenseHandler, *service.ExpenseService) {
	t.Helper()
	expenseRepo := testutil.NewMockExpenseRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	ctx := context.Background()
	seed := []*domain.Category{
		{Name: "JohnSpend", Labels: []string{"APPLE.COM/BILL"}, AccountID: "Spending John", CardName: "JOHN SMITH", Active: true},
		{Name: domain.UnknownCategoryName, Labels: []string{}, Active: true},
	}
	for _, c := range seed {
		if _, err := categoryRepo.Create(ctx, c); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}

	svc := service.NewExpenseService(expenseRepo, categoryRepo)
	return NewExpenseHandler(svc), svc
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestCreateExpenseHandler(t *testing.T) {
	h, _ := newExpenseHandlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/api/v1/expenses",
		`{"date":"2026-08-15","description":"APPLE.COM/BILL SYDNEY","cardMember":"JOHN SMITH","amount":"12.99"}`)
	c := e.NewContext(req, rec)

	if err := h.CreateExpense(c); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Category != "JohnSpend" {
		t.Errorf("category = %q, want JohnSpend", created.Category)
	}
	if created.CategoryHint == nil {
		t.Error("categoryHint must never be null in responses")
	}
}

func TestCreateExpenseHandlerValidation(t *testing.T) {
	h, _ := newExpenseHandlerFixture(t)
	e := echo.New()

	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"date":"15/08/2026","description":"X","cardMember":"JOHN SMITH","amount":"1.00"}`},
		{"bad amount", `{"date":"2026-08-15","description":"X","cardMember":"JOHN SMITH","amount":"twelve"}`},
		{"missing description", `{"date":"2026-08-15","description":"","cardMember":"JOHN SMITH","amount":"1.00"}`},
	}
	for _, tt := range tests {
		req, rec := jsonRequest(http.MethodPost, "/api/v1/expenses", tt.body)
		c := e.NewContext(req, rec)
		if err := h.CreateExpense(c); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestGetExpenseHandlerNotFound(t *testing.T) {
	h, _ := newExpenseHandlerFixture(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/api/v1/expenses/missing", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.GetExpense(c); err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Type != ErrorTypeNotFound {
		t.Errorf("problem type = %q", problem.Type)
	}
}

func TestGetExpensesHandlerFilter(t *testing.T) {
	h, svc := newExpenseHandlerFixture(t)
	e := echo.New()
	ctx := context.Background()

	seedCreate := func(body *domain.Expense) {
		if _, err := svc.CreateExpense(ctx, body); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}
	seedCreate(makeDomainExpense("APPLE.COM/BILL SYDNEY", "12.99", "2026-08-15"))
	seedCreate(makeDomainExpense("MYSTERY SHOP", "5.00", "2026-08-16"))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/expenses?needsReview=true", "")
	c := e.NewContext(req, rec)

	if err := h.GetExpenses(c); err != nil {
		t.Fatalf("GetExpenses: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var expenses []*domain.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &expenses); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("filtered expenses = %d, want 1", len(expenses))
	}
	if expenses[0].Description != "MYSTERY SHOP" {
		t.Errorf("wrong expense passed the filter: %s", expenses[0].Description)
	}

	// Bad date filter
	req, rec = jsonRequest(http.MethodGet, "/api/v1/expenses?startDate=yesterday", "")
	c = e.NewContext(req, rec)
	if err := h.GetExpenses(c); err != nil {
		t.Fatalf("GetExpenses: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad startDate: status = %d, want 400", rec.Code)
	}
}

func TestBulkUpdateHandler(t *testing.T) {
	h, svc := newExpenseHandlerFixture(t)
	e := echo.New()
	ctx := context.Background()

	created, err := svc.CreateExpense(ctx, makeDomainExpense("MYSTERY SHOP", "5.00", "2026-08-16"))
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	req, rec := jsonRequest(http.MethodPost, "/api/v1/expenses/bulk-update",
		`{"ids":["`+created.ID[:6]+`"],"category":"JohnSpend"}`)
	c := e.NewContext(req, rec)

	if err := h.BulkUpdateCategory(c); err != nil {
		t.Fatalf("BulkUpdateCategory: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var result service.BulkUpdateResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Updated) != 1 || len(result.Failed) != 0 {
		t.Errorf("result = %+v", result)
	}

	// Missing category must 400
	req, rec = jsonRequest(http.MethodPost, "/api/v1/expenses/bulk-update", `{"ids":["abc"]}`)
	c = e.NewContext(req, rec)
	if err := h.BulkUpdateCategory(c); err != nil {
		t.Fatalf("BulkUpdateCategory: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func makeDomainExpense(description, amount, date string) *domain.Expense {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return &domain.Expense{
		Date:        d,
		Description: description,
		CardMember:  "JOHN SMITH",
		Amount:      decimal.RequireFromString(amount),
	}
}
