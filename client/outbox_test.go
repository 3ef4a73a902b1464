package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxFIFO(t *testing.T) {
	o := newOutbox(4, DropOldest)
	require.NoError(t, o.push([]byte("a")))
	require.NoError(t, o.push([]byte("b")))

	v, err := o.pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", string(v))
}

func TestOutboxDropOldestOnOverflow(t *testing.T) {
	o := newOutbox(2, DropOldest)
	require.NoError(t, o.push([]byte("a")))
	require.NoError(t, o.push([]byte("b")))
	require.NoError(t, o.push([]byte("c"))) // drops "a"

	first, _ := o.pop(context.Background())
	second, _ := o.pop(context.Background())
	assert.Equal(t, []string{"b", "c"}, []string{string(first), string(second)})
}

func TestOutboxRejectOnOverflow(t *testing.T) {
	o := newOutbox(1, Reject)
	require.NoError(t, o.push([]byte("a")))
	err := o.push([]byte("b"))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestOutboxPopDrainsBeforeReportingClosed(t *testing.T) {
	o := newOutbox(4, DropOldest)
	require.NoError(t, o.push([]byte("a")))
	require.NoError(t, o.push([]byte("b")))
	o.closeForWrites()

	first, err := o.pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", string(first))

	second, err := o.pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", string(second))

	_, err = o.pop(context.Background())
	assert.ErrorIs(t, err, errOutboxClosed)
}

func TestOutboxPushRejectedAfterClose(t *testing.T) {
	o := newOutbox(4, DropOldest)
	o.closeForWrites()
	err := o.push([]byte("a"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOutboxPopRespectsContextCancellation(t *testing.T) {
	o := newOutbox(4, DropOldest)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := o.pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOutboxDiscardRemaining(t *testing.T) {
	o := newOutbox(4, DropOldest)
	require.NoError(t, o.push([]byte("a")))
	require.NoError(t, o.push([]byte("b")))
	assert.Equal(t, 2, o.discardRemaining())
	assert.True(t, o.empty())
}
