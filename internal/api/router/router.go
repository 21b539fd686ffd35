package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/kashguard/go-authchain/internal/api"
	"github.com/kashguard/go-authchain/internal/api/handlers/auth"
	"github.com/kashguard/go-authchain/internal/api/handlers/common"
)

// Init attaches the echo instance, middleware and all routes to the server.
func Init(s *api.Server) {
	s.Echo = echo.New()
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	s.Echo.Use(requestLogger())
	s.Echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: s.Config.Echo.RequestTimeout,
	}))

	s.Router = &api.Router{
		Root:      s.Echo.Group(""),
		APIV1Auth: s.Echo.Group("/api/v1/auth"),
	}

	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		auth.PostValidateRoute(s),
	}
}

// requestLogger attaches a request-scoped zerolog logger (tagged with the
// request ID) to the request context and logs one line per request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			l := log.With().
				Str("request_id", requestID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				l.Warn().Err(err).Int("status", c.Response().Status).Msg("Request failed")
			} else {
				l.Debug().Int("status", c.Response().Status).Msg("Request handled")
			}
			return err
		}
	}
}
