package eth

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// personalSignPrefix is the EIP-191 "personal_sign" envelope. Wallets prepend
// it before hashing so a signed message can never double as a transaction.
const personalSignPrefix = "\x19Ethereum Signed Message:\n"

// PersonalSignHash returns the keccak256 digest of message wrapped in the
// EIP-191 personal_sign envelope.
func PersonalSignHash(message string) common.Hash {
	data := fmt.Sprintf("%s%d%s", personalSignPrefix, len(message), message)
	return crypto.Keccak256Hash([]byte(data))
}

// PersonalSign signs message with key and returns the 0x-prefixed hex
// signature with the recovery byte in wallet convention (V in {27, 28}),
// 132 characters in total.
func PersonalSign(message string, key *ecdsa.PrivateKey) (string, error) {
	if key == nil {
		return "", errors.New("private key is nil")
	}
	sig, err := crypto.Sign(PersonalSignHash(message).Bytes(), key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverSigner returns the address that personal-signed message. Both V
// conventions ({0, 1} and {27, 28}) are accepted.
func RecoverSigner(signature, message string) (common.Address, error) {
	raw, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "malformed signature")
	}
	if len(raw) != crypto.SignatureLength {
		return common.Address{}, errors.Errorf("invalid signature length: %d bytes", len(raw))
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, raw)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(PersonalSignHash(message).Bytes(), sig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover public key")
	}
	return crypto.PubkeyToAddress(*pub), nil
}
