package typeddata

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kudos/pkg/domain"
)

// signDigest produces an r||s||v signature over the digest, the layout the
// verifier accepts on the wire.
func signDigest(t *testing.T, key *secp256k1.PrivateKey, digest [32]byte) id.Signature {
	t.Helper()
	compact := secpecdsa.SignCompact(key, digest[:], false)
	sig := make(id.Signature, id.SignatureLen)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0]
	return sig
}

func TestRecoverRoundTrip(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	signer := AddressFromPublicKey(key.PubKey())

	h := NewHasher(1, testContract)
	digest := h.ClaimDigest(42)
	sig := signDigest(t, key, digest)

	assert.Equal(t, signer, Recover(digest, sig))
}

func TestRecoverAcceptsRawRecoveryID(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	signer := AddressFromPublicKey(key.PubKey())

	h := NewHasher(1, testContract)
	digest := h.ClaimDigest(42)
	sig := signDigest(t, key, digest)
	sig[64] -= 27 // some signers emit v in {0, 1}

	assert.Equal(t, signer, Recover(digest, sig))
}

func TestRecoverMismatchOnTamperedDigest(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	signer := AddressFromPublicKey(key.PubKey())

	h := NewHasher(1, testContract)
	sig := signDigest(t, key, h.ClaimDigest(42))

	// Recovery over a different digest yields some other identity (or the
	// null identity), never the original signer.
	recovered := Recover(h.ClaimDigest(43), sig)
	assert.NotEqual(t, signer, recovered)
}

func TestRecoverMalformedInput(t *testing.T) {
	h := NewHasher(1, testContract)
	digest := h.ClaimDigest(1)

	t.Run("nil signature", func(t *testing.T) {
		assert.True(t, Recover(digest, nil).IsZero())
	})

	t.Run("short signature", func(t *testing.T) {
		assert.True(t, Recover(digest, make(id.Signature, 64)).IsZero())
	})

	t.Run("invalid recovery id", func(t *testing.T) {
		sig := make(id.Signature, id.SignatureLen)
		sig[64] = 99
		assert.True(t, Recover(digest, sig).IsZero())
	})

	t.Run("all zero signature", func(t *testing.T) {
		sig := make(id.Signature, id.SignatureLen)
		sig[64] = 27
		assert.True(t, Recover(digest, sig).IsZero())
	})
}

// TestRecoverRejectsHighS malleates a valid signature into its high-s twin
// and verifies the verifier refuses it. Accepting both forms would let two
// distinct signatures authorize the same message.
func TestRecoverRejectsHighS(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	h := NewHasher(1, testContract)
	digest := h.ClaimDigest(42)
	sig := signDigest(t, key, digest)

	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(sig[32:64])
	require.False(t, overflow)
	s.Negate() // N - s: the high-s counterpart

	malleated := make(id.Signature, id.SignatureLen)
	copy(malleated[:32], sig[:32])
	highS := s.Bytes()
	copy(malleated[32:64], highS[:])
	if sig[64] == 27 {
		malleated[64] = 28
	} else {
		malleated[64] = 27
	}

	assert.True(t, Recover(digest, malleated).IsZero())
}
