package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-authchain/internal/api"
	"github.com/kashguard/go-authchain/internal/authchain"
	"github.com/kashguard/go-authchain/internal/util"
)

// PostValidatePayload is the request body for chain validation. Timestamp is
// the reference validation time in milliseconds since epoch; when absent the
// server clock is used.
type PostValidatePayload struct {
	ExpectedFinalAuthority string              `json:"expectedFinalAuthority"`
	AuthChain              authchain.AuthChain `json:"authChain"`
	Timestamp              *int64              `json:"timestamp,omitempty"`
}

func PostValidateRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Auth.POST("/validate", postValidateHandler(s))
}

func postValidateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body PostValidatePayload
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if body.ExpectedFinalAuthority == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "expectedFinalAuthority is required")
		}
		if len(body.AuthChain) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "authChain is required")
		}

		at := s.Clock.Now()
		if body.Timestamp != nil {
			at = time.UnixMilli(*body.Timestamp)
		}

		// A rejected chain is still a successful validation request, so the
		// verdict travels in the body, not in the status code.
		result := s.Authenticator.ValidateSignature(ctx, body.ExpectedFinalAuthority, body.AuthChain, at)
		if !result.OK {
			log.Debug().Str("reason", result.Message).Msg("Auth chain rejected")
		}
		return c.JSON(http.StatusOK, result)
	}
}
