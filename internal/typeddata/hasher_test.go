package typeddata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kudos/pkg/domain"
)

var testContract = id.MustParseAddress("0x00112233445566778899aabbccddeeff00112233")

func testMessage() RegisterMessage {
	return RegisterMessage{
		Headline:           "Hackathon Winner",
		Description:        "Won the spring hackathon",
		StartDateTimestamp: 1700000000,
		EndDateTimestamp:   1700086400,
		Links:              []string{"https://example.org/a", "https://example.org/b"},
		CommunityUniqID:    "community-42",
	}
}

func TestDigestDeterministic(t *testing.T) {
	h := NewHasher(1, testContract)
	d1 := h.RegisterDigest(testMessage())
	d2 := h.RegisterDigest(testMessage())
	assert.Equal(t, d1, d2)
}

// TestDigestBindsEveryField mutates each signed field in turn and checks the
// digest moves. A digest that ignores a field would let a relayer substitute
// that field after signing.
func TestDigestBindsEveryField(t *testing.T) {
	h := NewHasher(1, testContract)
	base := h.RegisterDigest(testMessage())

	mutations := map[string]func(*RegisterMessage){
		"headline":    func(m *RegisterMessage) { m.Headline = "Other" },
		"description": func(m *RegisterMessage) { m.Description = "Other" },
		"start":       func(m *RegisterMessage) { m.StartDateTimestamp++ },
		"end":         func(m *RegisterMessage) { m.EndDateTimestamp++ },
		"links":       func(m *RegisterMessage) { m.Links = append(m.Links, "https://example.org/c") },
		"community":   func(m *RegisterMessage) { m.CommunityUniqID = "community-43" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			msg := testMessage()
			mutate(&msg)
			assert.NotEqual(t, base, h.RegisterDigest(msg))
		})
	}
}

func TestLinksHashingIsOrderSensitive(t *testing.T) {
	h := NewHasher(1, testContract)

	msg := testMessage()
	swapped := testMessage()
	swapped.Links = []string{swapped.Links[1], swapped.Links[0]}
	assert.NotEqual(t, h.RegisterDigest(msg), h.RegisterDigest(swapped))

	t.Run("duplicates are preserved", func(t *testing.T) {
		dup := testMessage()
		dup.Links = []string{"https://example.org/a", "https://example.org/a"}
		single := testMessage()
		single.Links = []string{"https://example.org/a"}
		assert.NotEqual(t, h.RegisterDigest(single), h.RegisterDigest(dup))
	})

	t.Run("empty sequence hashes", func(t *testing.T) {
		empty := testMessage()
		empty.Links = nil
		require.NotPanics(t, func() { h.RegisterDigest(empty) })
	})
}

// TestDomainSeparatorBindsDeployment verifies that the same message signed
// for another chain or another contract address yields a different digest.
func TestDomainSeparatorBindsDeployment(t *testing.T) {
	msg := testMessage()
	base := NewHasher(1, testContract).RegisterDigest(msg)

	otherChain := NewHasher(137, testContract).RegisterDigest(msg)
	assert.NotEqual(t, base, otherChain)

	otherContract := NewHasher(1, id.MustParseAddress("0xffffffffffffffffffffffffffffffffffffffff")).RegisterDigest(msg)
	assert.NotEqual(t, base, otherContract)
}

func TestClaimAndAllowlistDigests(t *testing.T) {
	h := NewHasher(1, testContract)

	assert.NotEqual(t, h.ClaimDigest(1), h.ClaimDigest(2))
	assert.NotEqual(t, h.AddAllowlistDigest(1), h.AddAllowlistDigest(2))

	// Same token id under different type tags must not collide: a claim
	// signature must not authorize an allowlist edit.
	assert.NotEqual(t, h.ClaimDigest(7), h.AddAllowlistDigest(7))
}
