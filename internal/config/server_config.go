package config

import (
	"time"

	"github.com/kashguard/go-authchain/internal/util"
)

type EchoServer struct {
	ListenAddress   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type Ethereum struct {
	// ProviderURL is the JSON-RPC endpoint used to verify EIP-1654 contract
	// signatures. Empty disables on-chain verification; chains containing
	// contract-signed links will then fail validation.
	ProviderURL string
}

type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

type Server struct {
	Echo     EchoServer
	Ethereum Ethereum
	Logger   Logger
}

// DefaultServiceConfigFromEnv returns the server config populated from
// AUTHCHAIN_* environment variables with development-friendly defaults.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress:   util.GetEnv("AUTHCHAIN_SERVER_ADDRESS", ":8080"),
			RequestTimeout:  time.Duration(util.GetEnvAsInt("AUTHCHAIN_SERVER_REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
			ShutdownTimeout: time.Duration(util.GetEnvAsInt("AUTHCHAIN_SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Ethereum: Ethereum{
			ProviderURL: util.GetEnv("AUTHCHAIN_ETH_PROVIDER_URL", ""),
		},
		Logger: Logger{
			Level:              util.GetEnv("AUTHCHAIN_LOGGER_LEVEL", "info"),
			PrettyPrintConsole: util.GetEnvAsBool("AUTHCHAIN_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
	}
}
