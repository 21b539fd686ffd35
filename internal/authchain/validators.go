package authchain

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/kashguard/go-authchain/internal/eth"
)

// ValidationOptions carries the per-run context every validator receives:
// chain node access (only the EIP-1654 validators use it) and the reference
// time for expiration checks and historical lookups.
type ValidationOptions struct {
	Provider eth.Provider
	At       time.Time
}

// linkValidator consumes the current authority and produces the next one, or
// fails with the reason this link cannot extend the chain. Validators are
// pure: all inputs are explicit and no state is shared between runs.
type linkValidator func(ctx context.Context, authority string, link AuthLink, opts *ValidationOptions) (string, error)

// getValidatorByType dispatches over the closed set of link types. Unknown
// types map to a validator that always fails, so the engine can never accept
// a link it does not understand.
func getValidatorByType(t LinkType) linkValidator {
	switch t {
	case LinkTypeSigner:
		return validateSigner
	case LinkTypePersonalEphemeral:
		return validatePersonalEphemeral
	case LinkTypePersonalSignedEntity:
		return validatePersonalSignedEntity
	case LinkTypeEIP1654Ephemeral:
		return validateEIP1654Ephemeral
	case LinkTypeEIP1654SignedEntity:
		return validateEIP1654SignedEntity
	default:
		return validateUnknown
	}
}

// validateSigner trusts the payload as the chain's root address. There is
// nothing to verify cryptographically at this step: trust is anchored by the
// expected final authority the caller supplies to the engine.
func validateSigner(_ context.Context, _ string, link AuthLink, _ *ValidationOptions) (string, error) {
	return link.Payload, nil
}

func validatePersonalSignedEntity(_ context.Context, authority string, link AuthLink, _ *ValidationOptions) (string, error) {
	signer, err := eth.RecoverSigner(link.Signature, link.Payload)
	if err != nil {
		return "", err
	}
	if !sameAddress(signer.Hex(), authority) {
		return "", errors.Errorf("expected signer %s, got %s", authority, signer.Hex())
	}
	return link.Payload, nil
}

func validatePersonalEphemeral(_ context.Context, authority string, link AuthLink, opts *ValidationOptions) (string, error) {
	payload, err := ParseEphemeralPayload(link.Payload)
	if err != nil {
		return "", err
	}
	if err := checkExpiration(payload.Expiration, opts.At); err != nil {
		return "", err
	}
	signer, err := eth.RecoverSigner(link.Signature, payload.Message)
	if err != nil {
		return "", err
	}
	if !sameAddress(signer.Hex(), authority) {
		return "", errors.Errorf("expected signer %s, got %s", authority, signer.Hex())
	}
	return payload.EphemeralAddress, nil
}

func validateEIP1654Ephemeral(ctx context.Context, authority string, link AuthLink, opts *ValidationOptions) (string, error) {
	payload, err := ParseEphemeralPayload(link.Payload)
	if err != nil {
		return "", err
	}
	if err := checkExpiration(payload.Expiration, opts.At); err != nil {
		return "", err
	}
	if err := eth.ValidateOnChainSignature(ctx, opts.Provider, common.HexToAddress(authority), payload.Message, link.Signature, opts.At); err != nil {
		return "", err
	}
	return payload.EphemeralAddress, nil
}

func validateEIP1654SignedEntity(ctx context.Context, authority string, link AuthLink, opts *ValidationOptions) (string, error) {
	if err := eth.ValidateOnChainSignature(ctx, opts.Provider, common.HexToAddress(authority), link.Payload, link.Signature, opts.At); err != nil {
		return "", err
	}
	return link.Payload, nil
}

func validateUnknown(_ context.Context, _ string, link AuthLink, _ *ValidationOptions) (string, error) {
	return "", errors.Errorf("unknown link type: %s", link.Type)
}

// checkExpiration rejects delegations at or past their expiration. The
// boundary is strict: a key expiring exactly at the reference time is no
// longer usable.
func checkExpiration(expiration, at time.Time) error {
	if !expiration.After(at) {
		return errors.Errorf("ephemeral key expired at %s", expiration.UTC().Format(time.RFC3339))
	}
	return nil
}

// sameAddress compares hex addresses ignoring case; checksum casing varies by
// source.
func sameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
