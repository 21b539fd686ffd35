package eth

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Identity is an Ethereum account together with its signing key. It is used
// both for the chain owner (when signing locally) and for ephemeral keys.
type Identity struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// NewIdentity generates a fresh secp256k1 identity.
func NewIdentity() (*Identity, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate secp256k1 key")
	}
	return &Identity{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}

// IdentityFromHex loads an identity from a hex-encoded private key, with or
// without the 0x prefix.
func IdentityFromHex(hexKey string) (*Identity, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	return &Identity{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, nil
}
