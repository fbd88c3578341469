package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StatusClientClosedRequest reports a request whose client went away before
// the handler finished.
const StatusClientClosedRequest = 499

// RequestTimeout runs the handler under a request context with a deadline.
// Handlers stop by observing that context. A bare context error returned
// by the handler becomes 504 on deadline and 499 on client cancellation;
// HTTP errors pass through unchanged.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err == nil {
				return nil
			}
			var he *echo.HTTPError
			if errors.As(err, &he) {
				return err
			}
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				return echo.NewHTTPError(http.StatusGatewayTimeout, "request exceeded the time limit").SetInternal(err)
			case errors.Is(err, context.Canceled):
				return echo.NewHTTPError(StatusClientClosedRequest, "request cancelled").SetInternal(err)
			}
			return err
		}
	}
}
