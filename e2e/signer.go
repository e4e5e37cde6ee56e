package e2e

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// The digest derivation here is an independent reimplementation of the
// gateway's typed-data scheme, so these tests validate the server's hashing
// rules from the outside rather than borrowing its code.

const (
	domainName    = "Kudos"
	domainVersion = "1"
)

var (
	typeHashDomain       = keccak([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	typeHashRegister     = keccak([]byte("Kudos(string headline,string description,uint256 startDateTimestamp,uint256 endDateTimestamp,string[] links,string communityUniqId)"))
	typeHashClaim        = keccak([]byte("Claim(uint256 tokenId)"))
	typeHashAddAllowlist = keccak([]byte("AddAllowlistedAddresses(uint256 tokenId)"))
)

// Signer holds a generated key pair for one test persona.
type Signer struct {
	key     *secp256k1.PrivateKey
	Address string
}

// NewSigner generates a fresh key pair.
func NewSigner() (*Signer, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate signer key: %w", err)
	}
	pub := key.PubKey().SerializeUncompressed()
	digest := keccak(pub[1:])
	return &Signer{
		key:     key,
		Address: "0x" + hex.EncodeToString(digest[12:]),
	}, nil
}

// Sign produces a 0x-hex recoverable signature in r || s || v layout.
func (s *Signer) Sign(digest [32]byte) string {
	compact := secpecdsa.SignCompact(s.key, digest[:], false)
	sig := make([]byte, 65)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0]
	return "0x" + hex.EncodeToString(sig)
}

// RegisterMessage mirrors the signed registration payload.
type RegisterMessage struct {
	Headline           string
	Description        string
	StartDateTimestamp int64
	EndDateTimestamp   int64
	Links              []string
	CommunityUniqID    string
}

// Domain identifies the deployment the signatures must bind to.
type Domain struct {
	ChainID  uint64
	Contract string
}

func (d Domain) separator() ([32]byte, error) {
	contract, err := addressWord(d.Contract)
	if err != nil {
		return [32]byte{}, err
	}
	return keccak(
		typeHashDomain[:],
		hashString(domainName),
		hashString(domainVersion),
		uint256(d.ChainID),
		contract,
	), nil
}

// RegisterDigest derives the signing digest for a registration.
func (d Domain) RegisterDigest(msg RegisterMessage) ([32]byte, error) {
	links := hashStringSequence(msg.Links)
	return d.digest(keccak(
		typeHashRegister[:],
		hashString(msg.Headline),
		hashString(msg.Description),
		uint256(uint64(msg.StartDateTimestamp)),
		uint256(uint64(msg.EndDateTimestamp)),
		links[:],
		hashString(msg.CommunityUniqID),
	))
}

// ClaimDigest derives the signing digest for a claim.
func (d Domain) ClaimDigest(tokenID uint64) ([32]byte, error) {
	return d.digest(keccak(typeHashClaim[:], uint256(tokenID)))
}

// AddAllowlistDigest derives the signing digest for an allowlist edit.
func (d Domain) AddAllowlistDigest(tokenID uint64) ([32]byte, error) {
	return d.digest(keccak(typeHashAddAllowlist[:], uint256(tokenID)))
}

func (d Domain) digest(structHash [32]byte) ([32]byte, error) {
	sep, err := d.separator()
	if err != nil {
		return [32]byte{}, err
	}
	return keccak([]byte{0x19, 0x01}, sep[:], structHash[:]), nil
}

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

func uint256(v uint64) []byte {
	word := make([]byte, 32)
	binary.BigEndian.PutUint64(word[24:], v)
	return word
}

func addressWord(addr string) ([]byte, error) {
	if len(addr) != 42 || addr[:2] != "0x" {
		return nil, fmt.Errorf("malformed address %q", addr)
	}
	raw, err := hex.DecodeString(addr[2:])
	if err != nil {
		return nil, fmt.Errorf("malformed address %q: %w", addr, err)
	}
	word := make([]byte, 32)
	copy(word[12:], raw)
	return word, nil
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
