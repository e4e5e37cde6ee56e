// Package domain defines the identity and token types shared across the
// kudos gateway. Typed wrappers keep addresses, token ids and signatures from
// being mixed up at compile time.
package domain

import (
	"bytes"
	"encoding/hex"
	"strings"

	dErrors "kudos/pkg/domain-errors"
)

// AddressLen is the byte length of an identity address.
const AddressLen = 20

// SignatureLen is the byte length of a recoverable signature (r || s || v).
const SignatureLen = 65

// Address is a 20-byte identity, the signer/holder identity used throughout
// the authorization engine. The zero value is the null identity: it is never
// a valid signer and is the only permitted mint origin on the ledger.
type Address [AddressLen]byte

// ZeroAddress is the null identity.
var ZeroAddress Address

// ParseAddress parses a 0x-prefixed, 40-hex-digit address string.
// Case-insensitive; the empty string and malformed input are rejected.
func ParseAddress(s string) (Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 0x-prefixed")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address is not valid hex")
	}
	if len(raw) != AddressLen {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 20 bytes")
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress parses an address and panics on failure. Test helper.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the null identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Bytes returns the raw 20-byte representation.
func (a Address) Bytes() []byte {
	return a[:]
}

// MarshalText implements encoding.TextMarshaler for JSON round-tripping.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// TokenID identifies one registered kudos token class. Ids are allocated by
// the registry counter, start at the configured seed and never repeat.
type TokenID uint64

// Signature is a 65-byte recoverable signature in r || s || v layout, v in
// {27, 28} (0 and 1 are normalized by the verifier).
type Signature []byte

// ParseSignature parses a 0x-prefixed 130-hex-digit signature.
func ParseSignature(s string) (Signature, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "signature must be 0x-prefixed")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "signature is not valid hex")
	}
	if len(raw) != SignatureLen {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "signature must be 65 bytes")
	}
	return Signature(raw), nil
}

func (s Signature) String() string {
	return "0x" + hex.EncodeToString(s)
}

// Equal reports byte equality.
func (s Signature) Equal(other Signature) bool {
	return bytes.Equal(s, other)
}
