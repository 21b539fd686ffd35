package authchain

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kashguard/go-authchain/internal/eth"
)

// Signer produces a signature for a message on behalf of the chain owner.
// It backs InitializeAuthChain so hardware wallets and remote signers can
// participate without exposing a raw private key.
type Signer func(ctx context.Context, message string) (string, error)

// CreateSimpleAuthChain builds a two-link chain from an already produced
// entity signature: SIGNER(ownerAddress) followed by a signed-entity link
// whose type is inferred from the signature length.
func CreateSimpleAuthChain(entityID, ownerAddress, signature string) AuthChain {
	return AuthChain{
		{Type: LinkTypeSigner, Payload: ownerAddress},
		{Type: SignedEntityLinkTypeForSignature(signature), Payload: entityID, Signature: signature},
	}
}

// CreateAuthChain builds the full three-link chain locally: the owner key
// delegates to the ephemeral key for ephemeralMinutes, and the ephemeral key
// signs the entity.
func CreateAuthChain(owner, ephemeral *eth.Identity, ephemeralMinutes int, entityID string) (AuthChain, error) {
	if owner == nil || owner.PrivateKey == nil {
		return nil, errors.New("owner identity with private key is required")
	}

	identity, err := InitializeAuthChain(context.Background(), owner.Address.Hex(), ephemeral, ephemeralMinutes,
		func(_ context.Context, message string) (string, error) {
			return eth.PersonalSign(message, owner.PrivateKey)
		})
	if err != nil {
		return nil, err
	}
	return SignPayload(identity, entityID)
}

// InitializeAuthChain builds the delegation part of a chain using an external
// signer for the owner signature and returns it as an AuthIdentity. The
// entity link is appended later with SignPayload, possibly in a different
// session.
func InitializeAuthChain(ctx context.Context, ownerAddress string, ephemeral *eth.Identity, ephemeralMinutes int, sign Signer) (*AuthIdentity, error) {
	if ephemeral == nil || ephemeral.PrivateKey == nil {
		return nil, errors.New("ephemeral identity with private key is required")
	}

	expiration := time.Now().Add(time.Duration(ephemeralMinutes) * time.Minute)
	payload := FormatEphemeralPayload(ephemeral.Address.Hex(), expiration)

	signature, err := sign(ctx, payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign ephemeral delegation")
	}

	return &AuthIdentity{
		EphemeralIdentity: ephemeral,
		Expiration:        expiration,
		AuthChain: AuthChain{
			{Type: LinkTypeSigner, Payload: ownerAddress},
			{Type: EphemeralLinkTypeForSignature(signature), Payload: payload, Signature: signature},
		},
	}, nil
}

// SignPayload signs entityID with the identity's ephemeral key and returns a
// new chain ending in the entity link. The stored chain is not mutated, so
// one AuthIdentity can sign any number of entities.
func SignPayload(identity *AuthIdentity, entityID string) (AuthChain, error) {
	if identity == nil || identity.EphemeralIdentity == nil || identity.EphemeralIdentity.PrivateKey == nil {
		return nil, errors.New("auth identity with an ephemeral private key is required")
	}

	signature, err := eth.PersonalSign(entityID, identity.EphemeralIdentity.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign entity")
	}

	chain := make(AuthChain, 0, len(identity.AuthChain)+1)
	chain = append(chain, identity.AuthChain...)
	chain = append(chain, AuthLink{
		Type:      SignedEntityLinkTypeForSignature(signature),
		Payload:   entityID,
		Signature: signature,
	})
	return chain, nil
}
