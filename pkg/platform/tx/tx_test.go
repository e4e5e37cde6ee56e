package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEmptyContext(t *testing.T) {
	_, ok := From(context.Background())
	assert.False(t, ok)
}

func TestWithTxNilIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, WithTx(ctx, nil))
}

func TestJournalRollbackRunsInReverse(t *testing.T) {
	var order []string
	j := &Journal{}
	ctx := WithJournal(context.Background(), j)

	OnRollback(ctx, func() { order = append(order, "first") })
	OnRollback(ctx, func() { order = append(order, "second") })
	OnRollback(ctx, func() { order = append(order, "third") })

	j.Rollback()
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// A second rollback finds an empty journal.
	j.Rollback()
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestOnRollbackWithoutJournalIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		OnRollback(context.Background(), func() {})
	})
}
