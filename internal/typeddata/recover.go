package typeddata

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	id "kudos/pkg/domain"
)

// Recover derives the signer address from a digest and a 65-byte r||s||v
// signature. Malformed or non-canonical input never produces an error: the
// null identity comes back instead, which fails every subsequent signer
// equality check. High-s signatures are rejected to rule out malleated
// duplicates of a signed message.
func Recover(digest [32]byte, sig id.Signature) id.Address {
	if len(sig) != id.SignatureLen {
		return id.Address{}
	}

	v := sig[64]
	if v == 0 || v == 1 {
		v += 27
	}
	if v != 27 && v != 28 {
		return id.Address{}
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sig[32:64]); overflow {
		return id.Address{}
	}
	if s.IsOverHalfOrder() {
		return id.Address{}
	}

	// RecoverCompact wants the recovery flag first: v || r || s.
	compact := make([]byte, id.SignatureLen)
	compact[0] = v
	copy(compact[1:], sig[:64])

	pub, _, err := secpecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return id.Address{}
	}
	return AddressFromPublicKey(pub)
}

// AddressFromPublicKey derives the 20-byte identity from a secp256k1 public
// key: the last 20 bytes of keccak256 over the uncompressed point without
// its 0x04 prefix.
func AddressFromPublicKey(pub *secp256k1.PublicKey) id.Address {
	raw := pub.SerializeUncompressed()
	h := keccak(raw[1:])
	var a id.Address
	copy(a[:], h[12:])
	return a
}
