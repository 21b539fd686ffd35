package keygen

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-authchain/internal/eth"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a secp256k1 identity usable as owner or ephemeral key",
		Run: func(cmd *cobra.Command, args []string) {
			identity, err := eth.NewIdentity()
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to generate identity")
			}
			fmt.Printf("address:     %s\n", identity.Address.Hex())
			fmt.Printf("private key: %s\n", hex.EncodeToString(crypto.FromECDSA(identity.PrivateKey)))
		},
	}
}
