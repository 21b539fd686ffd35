package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-authchain/internal/api"
	"github.com/kashguard/go-authchain/internal/api/router"
	"github.com/kashguard/go-authchain/internal/config"
	"github.com/kashguard/go-authchain/internal/eth"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the auth chain validation API server",
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
}

func run() {
	cfg := config.DefaultServiceConfigFromEnv()
	configureLogger(cfg.Logger)

	var provider eth.Provider
	if cfg.Ethereum.ProviderURL != "" {
		rpcProvider, err := eth.Dial(cfg.Ethereum.ProviderURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to ethereum node")
		}
		defer rpcProvider.Close()
		provider = rpcProvider
	} else {
		log.Warn().Msg("No ethereum provider configured, chains with contract-signed links will be rejected")
	}

	s := api.NewServer(cfg, provider, time2.DefaultClock)
	router.Init(s)

	go func() {
		log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Starting server")
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Echo.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to gracefully shut down server")
	}
}

func configureLogger(cfg config.Logger) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.PrettyPrintConsole {
		lw := zerolog.NewConsoleWriter()
		log.Logger = log.Output(lw)
	}
}
