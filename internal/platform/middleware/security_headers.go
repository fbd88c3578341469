package middleware

import (
	"github.com/labstack/echo/v4"
)

// apiHeaders apply to every response. The API only returns JSON, so the
// content policy denies everything a browser could load from it.
var apiHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	"Referrer-Policy":         "no-referrer",
	"Cache-Control":           "no-store",
}

const hstsValue = "max-age=31536000; includeSubDomains"

// SecurityHeaders sets the API response headers. Cohort data is never
// cached by intermediaries. Strict-Transport-Security is only sent when
// hsts is set, so plain-HTTP development servers stay reachable.
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range apiHeaders {
				h.Set(k, v)
			}
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			return next(c)
		}
	}
}
