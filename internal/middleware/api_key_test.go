package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runWithKey(t *testing.T, configured, provided string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owners", nil)
	if provided != "" {
		req.Header.Set(APIKeyHeader, provided)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAPIKeyMiddleware(configured)
	handler := mw.Authenticate()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestAPIKeyMiddleware(t *testing.T) {
	if rec := runWithKey(t, "secret", "secret"); rec.Code != http.StatusOK {
		t.Errorf("valid key: status = %d, want 200", rec.Code)
	}
	if rec := runWithKey(t, "secret", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad key: status = %d, want 401", rec.Code)
	}
	if rec := runWithKey(t, "secret", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want 401", rec.Code)
	}
	if rec := runWithKey(t, "", ""); rec.Code != http.StatusOK {
		t.Errorf("auth disabled: status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("10.0.0.1") {
		t.Error("second request within burst should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request should exceed the burst")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("a different client must have its own bucket")
	}
}
