package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// APIKeyHeader is the header carrying the static API key
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards the API with a single static key. An empty
// configured key disables authentication entirely, which is the local
// development mode.
type APIKeyMiddleware struct {
	key string
}

// NewAPIKeyMiddleware creates a new APIKeyMiddleware
func NewAPIKeyMiddleware(key string) *APIKeyMiddleware {
	if key == "" {
		log.Warn().Msg("API_KEY not set, authentication disabled")
	}
	return &APIKeyMiddleware{key: key}
}

// Authenticate returns the echo middleware function
func (m *APIKeyMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.key == "" {
				return next(c)
			}

			provided := c.Request().Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(m.key)) != 1 {
				log.Warn().
					Str("path", c.Request().URL.Path).
					Str("remote_ip", c.RealIP()).
					Msg("rejected request with bad API key")
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"type":   "https://expense-tracker.app/errors/unauthorized",
					"title":  "Unauthorized",
					"status": http.StatusUnauthorized,
					"detail": "A valid API key is required",
				})
			}
			return next(c)
		}
	}
}
