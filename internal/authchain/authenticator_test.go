package authchain

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kashguard/go-authchain/internal/eth"
)

func TestValidateSignatureRoundTrip(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)

	chain, err := CreateAuthChain(owner, ephemeral, 30, "entity-id")
	require.NoError(t, err)

	result := New(nil).ValidateSignature(context.Background(), "entity-id", chain, time.Now())
	assert.True(t, result.OK, result.Message)
}

func TestValidateSignatureSimpleChain(t *testing.T) {
	owner := mustIdentity(t)
	signature, err := eth.PersonalSign("entity-id", owner.PrivateKey)
	require.NoError(t, err)

	chain := CreateSimpleAuthChain("entity-id", owner.Address.Hex(), signature)
	result := New(nil).ValidateSignature(context.Background(), "entity-id", chain, time.Now())
	assert.True(t, result.OK, result.Message)
}

func TestValidateSignatureMalformedChains(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)
	chain, err := CreateAuthChain(owner, ephemeral, 30, "entity-id")
	require.NoError(t, err)

	cases := []struct {
		name  string
		chain AuthChain
	}{
		{"empty chain", AuthChain{}},
		{"first link is not SIGNER", chain[1:]},
		{"duplicate SIGNER", append(append(AuthChain{}, chain...), AuthLink{Type: LinkTypeSigner, Payload: owner.Address.Hex()})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := New(nil).ValidateSignature(context.Background(), "entity-id", tc.chain, time.Now())
			assert.False(t, result.OK)
			assert.Equal(t, "ERROR: Malformed authChain", result.Message)
		})
	}
}

func TestValidateSignatureFinalAuthorityMismatch(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)
	chain, err := CreateAuthChain(owner, ephemeral, 30, "entity-id")
	require.NoError(t, err)

	result := New(nil).ValidateSignature(context.Background(), "other-entity", chain, time.Now())
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "Invalid final authority")
	assert.Contains(t, result.Message, "other-entity")
	assert.Contains(t, result.Message, "entity-id")
}

func TestValidateSignatureExpiredDelegation(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)
	chain, err := CreateAuthChain(owner, ephemeral, 30, "entity-id")
	require.NoError(t, err)

	result := New(nil).ValidateSignature(context.Background(), "entity-id", chain, time.Now().Add(31*time.Minute))
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "expired")
	assert.Contains(t, result.Message, string(LinkTypePersonalEphemeral))
}

func TestValidateSignatureTamperedPayload(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)
	chain, err := CreateAuthChain(owner, ephemeral, 30, "entity-id")
	require.NoError(t, err)

	tampered := append(AuthChain{}, chain...)
	tampered[2].Payload = "entity-iD"

	result := New(nil).ValidateSignature(context.Background(), "entity-iD", tampered, time.Now())
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "expected signer")
}

func TestValidateSignatureFailsFast(t *testing.T) {
	owner := mustIdentity(t)
	provider := new(MockProvider)

	// An invalid second link aborts before the 1654 link is reached, so the
	// provider must never be consulted.
	chain := AuthChain{
		{Type: LinkTypeSigner, Payload: owner.Address.Hex()},
		{Type: LinkTypePersonalSignedEntity, Payload: "entity-id", Signature: "0xgarbage"},
		{Type: LinkTypeEIP1654SignedEntity, Payload: "entity-id", Signature: "0xabcdef"},
	}
	result := New(provider).ValidateSignature(context.Background(), "entity-id", chain, time.Now())
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "index 1")
	provider.AssertNotCalled(t, "CallContract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateSignatureUnknownLinkType(t *testing.T) {
	owner := mustIdentity(t)
	chain := AuthChain{
		{Type: LinkTypeSigner, Payload: owner.Address.Hex()},
		{Type: "FANCY_NEW_SCHEME", Payload: "entity-id", Signature: "0xabc"},
	}
	result := New(nil).ValidateSignature(context.Background(), "entity-id", chain, time.Now())
	assert.False(t, result.OK)
	assert.Contains(t, result.Message, "unknown link type")
	assert.Contains(t, result.Message, "FANCY_NEW_SCHEME")
}

func TestValidateSignatureContractChain(t *testing.T) {
	// Chain anchored at a contract account: delegation and entity signature
	// both verified through isValidSignature.
	ephemeral := mustIdentity(t)
	contractAddress := "0x1784Ef41af86e97f8D28aFe95b573a24aEDa966e"
	now := time.Now()

	payload := FormatEphemeralPayload(ephemeral.Address.Hex(), now.Add(time.Hour))
	entitySig, err := eth.PersonalSign("entity-id", ephemeral.PrivateKey)
	require.NoError(t, err)

	chain := AuthChain{
		{Type: LinkTypeSigner, Payload: contractAddress},
		{Type: LinkTypeEIP1654Ephemeral, Payload: payload, Signature: "0x010203"},
		{Type: SignedEntityLinkTypeForSignature(entitySig), Payload: "entity-id", Signature: entitySig},
	}

	provider := new(MockProvider)
	provider.On("CallContract", mock.Anything, mock.Anything, mock.Anything, (*big.Int)(nil)).
		Return(magicReturn, nil).Once()

	result := New(provider).ValidateSignature(context.Background(), "entity-id", chain, now)
	assert.True(t, result.OK, result.Message)
	provider.AssertExpectations(t)
}

func TestValidateSignatureFinalComparisonIsCaseSensitive(t *testing.T) {
	owner := mustIdentity(t)
	ephemeral := mustIdentity(t)
	chain, err := CreateAuthChain(owner, ephemeral, 30, "Entity-ID")
	require.NoError(t, err)

	result := New(nil).ValidateSignature(context.Background(), strings.ToLower("Entity-ID"), chain, time.Now())
	assert.False(t, result.OK)
}

func TestIsWellFormed(t *testing.T) {
	signer := AuthLink{Type: LinkTypeSigner, Payload: "0xOwner"}
	entity := AuthLink{Type: LinkTypePersonalSignedEntity, Payload: "entity-id"}

	assert.False(t, IsWellFormed(nil))
	assert.False(t, IsWellFormed(AuthChain{}))
	assert.True(t, IsWellFormed(AuthChain{signer}))
	assert.True(t, IsWellFormed(AuthChain{signer, entity}))
	assert.False(t, IsWellFormed(AuthChain{entity, signer}))
	assert.False(t, IsWellFormed(AuthChain{signer, entity, signer}))

	// pure: repeated calls on the same chain agree
	chain := AuthChain{signer, entity}
	first := IsWellFormed(chain)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, IsWellFormed(chain))
	}
}
