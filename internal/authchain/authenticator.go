package authchain

import (
	"context"
	"fmt"
	"time"

	"github.com/kashguard/go-authchain/internal/eth"
)

// ValidationResult is the verdict for one chain. Every failure mode inside
// the engine or a validator ends up here; ValidateSignature never panics and
// never returns an error.
type ValidationResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

const malformedChainMessage = "ERROR: Malformed authChain"

// Authenticator validates auth chains against an expected final authority.
// The provider may be nil when no EIP-1654 links are expected; encountering
// one then fails the chain.
type Authenticator struct {
	provider eth.Provider
}

func New(provider eth.Provider) *Authenticator {
	return &Authenticator{provider: provider}
}

// ValidateSignature walks the chain in order, dispatching each link to the
// validator for its type and threading the produced authority into the next
// link. The first failing link aborts the walk; the final authority must
// equal expectedFinalAuthority exactly. `at` is the reference time for
// ephemeral expiration checks and historical on-chain lookups.
func (a *Authenticator) ValidateSignature(ctx context.Context, expectedFinalAuthority string, chain AuthChain, at time.Time) *ValidationResult {
	if !IsWellFormed(chain) {
		return &ValidationResult{Message: malformedChainMessage}
	}

	opts := &ValidationOptions{Provider: a.provider, At: at}
	authority := ""
	for i, link := range chain {
		next, err := getValidatorByType(link.Type)(ctx, authority, link, opts)
		if err != nil {
			return &ValidationResult{
				Message: fmt.Sprintf("ERROR. Link type: %s (index %d). %s.", link.Type, i, err),
			}
		}
		authority = next
	}

	if authority != expectedFinalAuthority {
		return &ValidationResult{
			Message: fmt.Sprintf("ERROR: Invalid final authority. Expected: %s. Current: %s.", expectedFinalAuthority, authority),
		}
	}
	return &ValidationResult{OK: true}
}

// IsWellFormed checks the structural invariants a chain must satisfy before
// any link is validated: it is non-empty, starts with a SIGNER link, and
// contains no other SIGNER link.
func IsWellFormed(chain AuthChain) bool {
	if len(chain) == 0 {
		return false
	}
	if chain[0].Type != LinkTypeSigner {
		return false
	}
	for _, link := range chain[1:] {
		if link.Type == LinkTypeSigner {
			return false
		}
	}
	return true
}
