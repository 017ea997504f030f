package http

import "github.com/labstack/echo/v4"

// Handler defines the HTTP route registration interface.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
