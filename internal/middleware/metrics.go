package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestObserver records request outcomes.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// Metrics reports every request to observer, labelled by the matched route
// template so path parameters do not explode label cardinality.
func Metrics(observer RequestObserver) echo.MiddlewareFunc {
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
			observer.ObserveRequest(route, c.Request().Method, c.Response().Status, time.Since(start))
			return err
		}
	}
}
