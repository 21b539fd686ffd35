package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-authchain/cmd/keygen"
	"github.com/kashguard/go-authchain/cmd/server"
	"github.com/kashguard/go-authchain/cmd/validate"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "authchain",
		Short: "Build and validate chains of delegated authority",
	}

	rootCmd.AddCommand(server.New())
	rootCmd.AddCommand(validate.New())
	rootCmd.AddCommand(keygen.New())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
