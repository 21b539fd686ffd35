package authchain

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultEphemeralMessage is the human-readable first line of an ephemeral
// delegation payload. The parser does not require it; wallets may show their
// own text.
const DefaultEphemeralMessage = "Authorize ephemeral key"

const (
	ephemeralAddressPrefix = "Ephemeral address: "
	expirationPrefix       = "Expiration: "
)

// EphemeralPayload is the parsed form of an ephemeral delegation payload.
// Message is the full normalized payload, which is exactly what the
// delegating key signed.
type EphemeralPayload struct {
	Message          string
	EphemeralAddress string
	Expiration       time.Time
}

// FormatEphemeralPayload renders the three-line delegation payload binding an
// ephemeral address to an expiration time.
func FormatEphemeralPayload(ephemeralAddress string, expiration time.Time) string {
	return fmt.Sprintf("%s\n%s%s\n%s%s",
		DefaultEphemeralMessage,
		ephemeralAddressPrefix, ephemeralAddress,
		expirationPrefix, expiration.UTC().Format(time.RFC3339),
	)
}

// ParseEphemeralPayload parses a delegation payload. Carriage returns are
// stripped before parsing so payloads survive CRLF transports.
func ParseEphemeralPayload(payload string) (*EphemeralPayload, error) {
	clean := strings.ReplaceAll(payload, "\r", "")

	var address, expiration string
	for _, line := range strings.Split(clean, "\n") {
		switch {
		case strings.HasPrefix(line, ephemeralAddressPrefix):
			address = strings.TrimPrefix(line, ephemeralAddressPrefix)
		case strings.HasPrefix(line, expirationPrefix):
			expiration = strings.TrimPrefix(line, expirationPrefix)
		}
	}
	if address == "" {
		return nil, errors.New("payload is missing the ephemeral address line")
	}
	if expiration == "" {
		return nil, errors.New("payload is missing the expiration line")
	}

	ts, err := time.Parse(time.RFC3339, expiration)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid expiration timestamp %q", expiration)
	}

	return &EphemeralPayload{
		Message:          clean,
		EphemeralAddress: address,
		Expiration:       ts,
	}, nil
}
