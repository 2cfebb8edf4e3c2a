package server

import (
	"net/http"

	"eshop/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, pageH *handler.PageHandler, apiH *handler.APIHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	pageH.RegisterRoutes(e)
	apiH.RegisterRoutes(e)
}
