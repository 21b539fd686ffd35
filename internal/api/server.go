package api

import (
	"context"

	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kashguard/go-authchain/internal/authchain"
	"github.com/kashguard/go-authchain/internal/config"
	"github.com/kashguard/go-authchain/internal/eth"
)

type Router struct {
	Routes    []*echo.Route
	Root      *echo.Group
	APIV1Auth *echo.Group
}

// Server keeps the dependencies of the validation API together. Echo and
// Router are initialized by router.Init after construction.
type Server struct {
	Config config.Server
	Echo   *echo.Echo
	Router *Router

	Clock         time2.Clock
	Authenticator *authchain.Authenticator
}

// NewServer wires an authenticator over the given provider. The provider may
// be nil when on-chain verification is not configured.
func NewServer(cfg config.Server, provider eth.Provider, clock time2.Clock) *Server {
	return &Server{
		Config:        cfg,
		Clock:         clock,
		Authenticator: authchain.New(provider),
	}
}

func (s *Server) Ready() bool {
	return s.Echo != nil && s.Router != nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready, router was not initialized")
	}
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}
