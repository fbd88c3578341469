package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500. The panic is logged on the
// request-scoped logger installed by Logger, falling back to logger when
// Recovery runs outside it. http.ErrAbortHandler is re-raised so net/http
// can drop the connection.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				l := zerolog.Ctx(c.Request().Context())
				if l.GetLevel() == zerolog.Disabled {
					l = &logger
				}
				evt := l.Error().
					Str("request_id", RequestIDFrom(c)).
					Str("route", c.Path()).
					Bytes("stack", debug.Stack())
				if e, ok := r.(error); ok {
					evt = evt.Err(e)
				} else {
					evt = evt.Str("panic", fmt.Sprint(r))
				}
				evt.Msg("handler panicked")

				err = echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}()
			return next(c)
		}
	}
}
