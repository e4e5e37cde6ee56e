// Package typeddata derives the canonical signing digests for the three
// signed kudos operations and recovers signer identities from signatures
// over those digests.
//
// The encoding is the structured typed-data format: a domain separator binds
// a signature to this deployment (name, version, chain id, verifying
// contract), a per-kind struct hash binds it to the message content, and the
// final digest is keccak256(0x19 || 0x01 || separator || structHash).
// Changing any field order below breaks compatibility with already-signed,
// not-yet-submitted messages.
package typeddata

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	id "kudos/pkg/domain"
)

// Domain constants. Chain id and contract address are runtime values and
// live on the Hasher.
const (
	DomainName    = "Kudos"
	DomainVersion = "1"
)

var (
	typeHashDomain       = keccak([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	typeHashRegister     = keccak([]byte("Kudos(string headline,string description,uint256 startDateTimestamp,uint256 endDateTimestamp,string[] links,string communityUniqId)"))
	typeHashClaim        = keccak([]byte("Claim(uint256 tokenId)"))
	typeHashAddAllowlist = keccak([]byte("AddAllowlistedAddresses(uint256 tokenId)"))
)

// RegisterMessage is the signed payload for token registration. Hashing uses
// the fields exactly as submitted, not as later stored.
type RegisterMessage struct {
	Headline           string
	Description        string
	StartDateTimestamp int64
	EndDateTimestamp   int64
	Links              []string
	CommunityUniqID    string
}

// Hasher derives digests for one deployment, identified by chain id and
// verifying contract address.
type Hasher struct {
	chainID  uint64
	contract id.Address
}

// NewHasher constructs a Hasher bound to a chain id and contract address.
func NewHasher(chainID uint64, contract id.Address) *Hasher {
	return &Hasher{chainID: chainID, contract: contract}
}

// DomainSeparator hashes the deployment identity. Recomputed on every call:
// the chain id and address are runtime values and must stay correct across
// chain forks or address changes, so the separator is never cached.
func (h *Hasher) DomainSeparator() [32]byte {
	return keccak(
		typeHashDomain[:],
		hashString(DomainName),
		hashString(DomainVersion),
		uint256(h.chainID),
		addressWord(h.contract),
	)
}

// RegisterStructHash hashes a registration message.
func (h *Hasher) RegisterStructHash(msg RegisterMessage) [32]byte {
	links := hashStringSequence(msg.Links)
	return keccak(
		typeHashRegister[:],
		hashString(msg.Headline),
		hashString(msg.Description),
		uint256(uint64(msg.StartDateTimestamp)),
		uint256(uint64(msg.EndDateTimestamp)),
		links[:],
		hashString(msg.CommunityUniqID),
	)
}

// ClaimStructHash hashes a claim message. Only the token id is signed.
func (h *Hasher) ClaimStructHash(tokenID id.TokenID) [32]byte {
	return keccak(typeHashClaim[:], uint256(uint64(tokenID)))
}

// AddAllowlistStructHash hashes an allowlist-edit message. Only the token id
// is signed; the appended addresses are deliberately outside the payload.
// That weak binding is a documented property of the wire format, not a bug
// in this implementation.
func (h *Hasher) AddAllowlistStructHash(tokenID id.TokenID) [32]byte {
	return keccak(typeHashAddAllowlist[:], uint256(uint64(tokenID)))
}

// Digest combines the domain separator and a struct hash into the final
// signed digest: keccak256(0x19 || 0x01 || separator || structHash).
func (h *Hasher) Digest(structHash [32]byte) [32]byte {
	sep := h.DomainSeparator()
	return keccak([]byte{0x19, 0x01}, sep[:], structHash[:])
}

// RegisterDigest is shorthand for Digest(RegisterStructHash(msg)).
func (h *Hasher) RegisterDigest(msg RegisterMessage) [32]byte {
	return h.Digest(h.RegisterStructHash(msg))
}

// ClaimDigest is shorthand for Digest(ClaimStructHash(tokenID)).
func (h *Hasher) ClaimDigest(tokenID id.TokenID) [32]byte {
	return h.Digest(h.ClaimStructHash(tokenID))
}

// AddAllowlistDigest is shorthand for Digest(AddAllowlistStructHash(tokenID)).
func (h *Hasher) AddAllowlistDigest(tokenID id.TokenID) [32]byte {
	return h.Digest(h.AddAllowlistStructHash(tokenID))
}

// hashStringSequence hashes each element independently, concatenates the raw
// hash outputs in order and hashes the concatenation. Order- and
// length-sensitive; no dedup, no sorting.
func hashStringSequence(elems []string) [32]byte {
	buf := make([]byte, 0, len(elems)*32)
	for _, e := range elems {
		eh := keccak([]byte(e))
		buf = append(buf, eh[:]...)
	}
	return keccak(buf)
}

func hashString(s string) []byte {
	h := keccak([]byte(s))
	return h[:]
}

// uint256 encodes v as a left-padded 32-byte big-endian word.
func uint256(v uint64) []byte {
	word := make([]byte, 32)
	binary.BigEndian.PutUint64(word[24:], v)
	return word
}

// addressWord encodes an address as a left-padded 32-byte word.
func addressWord(a id.Address) []byte {
	word := make([]byte, 32)
	copy(word[12:], a.Bytes())
	return word
}

func keccak(chunks ...[]byte) [32]byte {
	d := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		d.Write(c)
	}
	var out [32]byte
	d.Sum(out[:0])
	return out
}
