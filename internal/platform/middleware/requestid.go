package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const HeaderRequestID = "X-Request-ID"

// contextKeyRequestID is the echo context key the middleware stores the id
// under. Readers go through RequestIDFrom rather than the raw key.
const contextKeyRequestID = "request_id"

// RequestID propagates an inbound X-Request-ID or generates one, storing it
// in the context for the logger and echoing it back on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set(contextKeyRequestID, rid)
			c.Response().Header().Set(HeaderRequestID, rid)
			return next(c)
		}
	}
}

// RequestIDFrom returns the request id stored by RequestID, or "" when the
// middleware did not run for this request.
func RequestIDFrom(c echo.Context) string {
	rid, _ := c.Get(contextKeyRequestID).(string)
	return rid
}
