package authchain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthChainWireFormat(t *testing.T) {
	raw := `[
		{"type": "SIGNER", "payload": "0x3B21028719a4ACa7EBee35B0157a6F1B0cF0d0c5", "signature": ""},
		{"type": "ECDSA_PERSONAL_SIGNED_ENTITY", "payload": "entity-id", "signature": "0xsig"}
	]`

	var chain AuthChain
	require.NoError(t, json.Unmarshal([]byte(raw), &chain))
	require.Len(t, chain, 2)
	assert.Equal(t, LinkTypeSigner, chain[0].Type)
	assert.Equal(t, "0x3B21028719a4ACa7EBee35B0157a6F1B0cF0d0c5", chain[0].Payload)
	assert.Equal(t, "0xsig", chain[1].Signature)

	out, err := json.Marshal(chain)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"SIGNER"`)
	assert.Contains(t, string(out), `"payload":"entity-id"`)
}
