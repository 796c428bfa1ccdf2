package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Middleware records request counts and latency per route.
func Middleware(service string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			RequestsTotal.WithLabelValues(service, method, route, strconv.Itoa(c.Response().Status)).Inc()
			RequestDuration.WithLabelValues(service, method, route).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
