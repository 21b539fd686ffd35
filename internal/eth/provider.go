package eth

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// Provider gives the verifier access to an Ethereum node. It is the only
// external capability the validation core depends on, so callers can plug in
// any client. Implementations must not retry internally; deadlines and retry
// policy belong to the caller and the transport.
type Provider interface {
	// CallContract performs a read-only contract call. A nil blockNumber
	// targets the latest state, otherwise the call is pinned to the given
	// historical height.
	CallContract(ctx context.Context, to common.Address, data []byte, blockNumber *big.Int) ([]byte, error)

	// BlockNumberByTime resolves a point in time to the highest block whose
	// timestamp is not after it.
	BlockNumberByTime(ctx context.Context, at time.Time) (*big.Int, error)
}

// RPCProvider implements Provider on top of a JSON-RPC connection.
type RPCProvider struct {
	client *rpc.Client
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(url string) (*RPCProvider, error) {
	client, err := rpc.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to dial ethereum node at %s", url)
	}
	return NewRPCProvider(client), nil
}

// NewRPCProvider wraps an existing RPC client.
func NewRPCProvider(client *rpc.Client) *RPCProvider {
	return &RPCProvider{client: client}
}

// Close releases the underlying connection.
func (p *RPCProvider) Close() {
	p.client.Close()
}

func (p *RPCProvider) CallContract(ctx context.Context, to common.Address, data []byte, blockNumber *big.Int) ([]byte, error) {
	arg := map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
	block := "latest"
	if blockNumber != nil {
		block = hexutil.EncodeBig(blockNumber)
	}
	var out hexutil.Bytes
	if err := p.client.CallContext(ctx, &out, "eth_call", arg, block); err != nil {
		return nil, errors.Wrap(err, "eth_call failed")
	}
	return out, nil
}

// blockHeader is the subset of an Ethereum block header needed for the
// timestamp search.
type blockHeader struct {
	Number    *hexutil.Big   `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

func (p *RPCProvider) headerByNumber(ctx context.Context, tag string) (*blockHeader, error) {
	var header *blockHeader
	if err := p.client.CallContext(ctx, &header, "eth_getBlockByNumber", tag, false); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch block %s", tag)
	}
	if header == nil {
		return nil, errors.Errorf("block %s not found", tag)
	}
	return header, nil
}

// BlockNumberByTime binary-searches the chain for the highest block mined at
// or before the given time.
func (p *RPCProvider) BlockNumberByTime(ctx context.Context, at time.Time) (*big.Int, error) {
	target := uint64(at.Unix())

	latest, err := p.headerByNumber(ctx, "latest")
	if err != nil {
		return nil, err
	}
	if uint64(latest.Timestamp) <= target {
		return latest.Number.ToInt(), nil
	}

	genesis, err := p.headerByNumber(ctx, hexutil.EncodeUint64(0))
	if err != nil {
		return nil, err
	}
	if uint64(genesis.Timestamp) > target {
		return nil, errors.Errorf("time %s predates the chain genesis", at.UTC().Format(time.RFC3339))
	}

	// Invariant: block lo is at or before target, block hi is after it.
	lo := uint64(0)
	hi := latest.Number.ToInt().Uint64()
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		header, err := p.headerByNumber(ctx, hexutil.EncodeUint64(mid))
		if err != nil {
			return nil, err
		}
		if uint64(header.Timestamp) <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return new(big.Int).SetUint64(lo), nil
}
