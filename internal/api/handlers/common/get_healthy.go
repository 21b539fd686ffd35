package common

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-authchain/internal/api"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/-/healthy", getHealthyHandler(s))
}

func getHealthyHandler(_ *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
}
