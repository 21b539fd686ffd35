package eth

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// ErrMissingProvider is returned when a contract signature has to be checked
// but no chain node access was configured.
var ErrMissingProvider = errors.New("missing ethereum provider")

// ValidSignatureMagic is the bytes4 value an EIP-1654 contract returns from
// isValidSignature to accept a signature.
const ValidSignatureMagic = "0x1626ba7e"

var validSignatureMagic = [4]byte{0x16, 0x26, 0xba, 0x7e}

const isValidSignatureJSON = `[{
	"constant": true,
	"name": "isValidSignature",
	"type": "function",
	"stateMutability": "view",
	"inputs": [
		{"name": "hash", "type": "bytes32"},
		{"name": "signature", "type": "bytes"}
	],
	"outputs": [
		{"name": "magicValue", "type": "bytes4"}
	]
}]`

var erc1654ABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(isValidSignatureJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// ValidateOnChainSignature checks a signature produced by a contract account
// via the EIP-1654 isValidSignature method. The contract is consulted at the
// latest state first; if that check fails (for any reason), the call is
// re-issued pinned to the block height corresponding to `at`, so signatures
// stay valid after the contract's signer set rotates. The live check always
// runs first: a stale height alone must never accept a signature the contract
// would currently reject for an unrelated reason.
func ValidateOnChainSignature(ctx context.Context, provider Provider, contract common.Address, message, signature string, at time.Time) error {
	if provider == nil {
		return ErrMissingProvider
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return errors.Wrap(err, "malformed contract signature")
	}

	digest := crypto.Keccak256Hash([]byte(message))
	data, err := erc1654ABI.Pack("isValidSignature", digest, sig)
	if err != nil {
		return errors.Wrap(err, "failed to encode isValidSignature call")
	}

	liveErr := callIsValidSignature(ctx, provider, contract, data, nil)
	if liveErr == nil {
		return nil
	}

	block, err := provider.BlockNumberByTime(ctx, at)
	if err != nil {
		return errors.Wrapf(err, "signature rejected at latest block (%v) and historical block lookup failed", liveErr)
	}

	if histErr := callIsValidSignature(ctx, provider, contract, data, block); histErr != nil {
		return errors.Errorf("signature rejected at latest block (%v) and at block %s (%v)", liveErr, block, histErr)
	}
	return nil
}

func callIsValidSignature(ctx context.Context, provider Provider, contract common.Address, data []byte, blockNumber *big.Int) error {
	ret, err := provider.CallContract(ctx, contract, data, blockNumber)
	if err != nil {
		return err
	}
	if len(ret) < 4 || !bytes.Equal(ret[:4], validSignatureMagic[:]) {
		return errors.Errorf("expected magic value %s, got %s", ValidSignatureMagic, hexutil.Encode(ret))
	}
	return nil
}
