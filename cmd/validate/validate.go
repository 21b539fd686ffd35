package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-authchain/internal/authchain"
	"github.com/kashguard/go-authchain/internal/eth"
)

func New() *cobra.Command {
	var chainFile string
	var authority string
	var rpcURL string
	var atRFC3339 string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an auth chain JSON file against an expected final authority",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runValidate(chainFile, authority, rpcURL, atRFC3339); err != nil {
				log.Fatal().Err(err).Msg("Validation could not run")
			}
		},
	}

	cmd.Flags().StringVarP(&chainFile, "chain", "c", "", "Path to the auth chain JSON file")
	cmd.Flags().StringVarP(&authority, "authority", "a", "", "Expected final authority (entity id or address)")
	cmd.Flags().StringVar(&rpcURL, "rpc", "", "Ethereum JSON-RPC endpoint for contract-signed links")
	cmd.Flags().StringVar(&atRFC3339, "time", "", "Reference validation time (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("authority")

	return cmd
}

func runValidate(chainFile, authority, rpcURL, atRFC3339 string) error {
	raw, err := os.ReadFile(chainFile)
	if err != nil {
		return err
	}
	var chain authchain.AuthChain
	if err := json.Unmarshal(raw, &chain); err != nil {
		return err
	}

	at := time.Now()
	if atRFC3339 != "" {
		at, err = time.Parse(time.RFC3339, atRFC3339)
		if err != nil {
			return err
		}
	}

	var provider eth.Provider
	if rpcURL != "" {
		rpcProvider, err := eth.Dial(rpcURL)
		if err != nil {
			return err
		}
		defer rpcProvider.Close()
		provider = rpcProvider
	}

	result := authchain.New(provider).ValidateSignature(context.Background(), authority, chain, at)
	if !result.OK {
		fmt.Println(result.Message)
		os.Exit(1)
	}
	fmt.Println("OK")
	return nil
}
