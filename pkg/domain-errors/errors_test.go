package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeNotAllowlisted, "claimee not on allowlist")
		assert.True(t, HasCode(err, CodeNotAllowlisted))
		assert.False(t, HasCode(err, CodeAlreadyClaimed))
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeNotFound, "no kudos record")
		outer := Wrap(inner, CodeInternal, "load token record")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("false for plain errors", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "mint balance")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodePaused, CodeOf(New(CodePaused, "gateway paused")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("untyped")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("wrapped: %w", errors.New("untyped"))))
}
