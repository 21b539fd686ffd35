package authchain

import (
	"time"

	"github.com/kashguard/go-authchain/internal/eth"
)

// LinkType tags one step of an auth chain. The values are the wire format.
type LinkType string

const (
	// LinkTypeSigner anchors the chain: its payload is the root address.
	LinkTypeSigner LinkType = "SIGNER"
	// LinkTypePersonalEphemeral delegates authority to an ephemeral key,
	// signed with the owner's raw private key (personal_sign).
	LinkTypePersonalEphemeral LinkType = "ECDSA_PERSONAL_EPHEMERAL"
	// LinkTypePersonalSignedEntity signs the final entity with a raw key.
	LinkTypePersonalSignedEntity LinkType = "ECDSA_PERSONAL_SIGNED_ENTITY"
	// LinkTypeEIP1654Ephemeral delegates to an ephemeral key on behalf of a
	// contract account; verified on chain via isValidSignature.
	LinkTypeEIP1654Ephemeral LinkType = "ECDSA_EIP1654_EPHEMERAL"
	// LinkTypeEIP1654SignedEntity signs the final entity with a contract
	// account.
	LinkTypeEIP1654SignedEntity LinkType = "ECDSA_EIP1654_SIGNED_ENTITY"
)

// PersonalSignatureLength is the length of a hex-encoded personal_sign
// signature including the 0x prefix and the recovery byte. Signatures of any
// other length belong to contract accounts.
const PersonalSignatureLength = 132

// AuthLink is one signed assertion transferring authority from one address
// to the next.
type AuthLink struct {
	Type      LinkType `json:"type"`
	Payload   string   `json:"payload"`
	Signature string   `json:"signature"`
}

// AuthChain is an ordered sequence of links. Order is significant: validation
// threads the authority produced by each link into the next one.
type AuthChain []AuthLink

// AuthIdentity is a persisted ephemeral delegation. It lets a client sign
// entities later (see SignPayload) without touching the owner key again.
type AuthIdentity struct {
	EphemeralIdentity *eth.Identity
	Expiration        time.Time
	AuthChain         AuthChain
}

// EphemeralLinkTypeForSignature classifies an ephemeral delegation link by
// its signature: exactly 132 hex characters means a personal_sign signature,
// anything else a contract one.
func EphemeralLinkTypeForSignature(signature string) LinkType {
	if len(signature) == PersonalSignatureLength {
		return LinkTypePersonalEphemeral
	}
	return LinkTypeEIP1654Ephemeral
}

// SignedEntityLinkTypeForSignature applies the same classification to entity
// signature links.
func SignedEntityLinkTypeForSignature(signature string) LinkType {
	if len(signature) == PersonalSignatureLength {
		return LinkTypePersonalSignedEntity
	}
	return LinkTypeEIP1654SignedEntity
}
