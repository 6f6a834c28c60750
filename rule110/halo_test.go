package rule110

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinks(t *testing.T) {
	assert.Len(t, newLinks(4, FixedBoundary), 3)
	assert.Len(t, newLinks(4, WrapBoundary), 4)
	assert.Len(t, newLinks(1, FixedBoundary), 0)
	assert.Len(t, newLinks(1, WrapBoundary), 1)
}

// Adjacent ports must be cross-wired: what one side publishes is what the
// other side receives.
func TestPortsCrossWire(t *testing.T) {
	ctx := context.Background()
	parts, err := Partitions(6, 2, FixedBoundary)
	require.NoError(t, err)
	links := newLinks(2, FixedBoundary)

	l0, r0 := ports(parts[0], links)
	l1, r1 := ports(parts[1], links)
	assert.Nil(t, l0)
	assert.Nil(t, r1)

	require.NoError(t, r0.publish(0, 1))
	require.NoError(t, l1.publish(0, 0))

	v, err := l1.receive(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
	v, err = r0.receive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), v)
}

func TestPortsSingleWorkerWrap(t *testing.T) {
	ctx := context.Background()
	parts, err := Partitions(4, 1, WrapBoundary)
	require.NoError(t, err)
	left, right := ports(parts[0], newLinks(1, WrapBoundary))
	require.NotNil(t, left)
	require.NotNil(t, right)

	// The left edge goes out to the left and comes back in on the right.
	require.NoError(t, left.publish(0, 1))
	require.NoError(t, right.publish(0, 0))
	v, err := left.receive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), v)
	v, err = right.receive(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), v)
}

func TestPublishFullSlot(t *testing.T) {
	l := newLink()
	p := &port{out: l.toRight, in: l.toLeft, neighbor: 1, side: RightSide}
	require.NoError(t, p.publish(0, 1))
	assert.ErrorIs(t, p.publish(1, 1), ErrInvariantViolation)
}

func TestReceiveClosedLink(t *testing.T) {
	l := newLink()
	p := &port{out: l.toRight, in: l.toLeft, neighbor: 3, side: RightSide}
	close(l.toLeft)

	_, err := p.receive(context.Background(), 2, 7)
	require.ErrorIs(t, err, ErrBoundaryExchangeFailed)
	var xe *ExchangeError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, 2, xe.Worker)
	assert.Equal(t, 3, xe.Neighbor)
	assert.Equal(t, RightSide, xe.Side)
	assert.Equal(t, 7, xe.Generation)
	assert.Contains(t, err.Error(), "right neighbour 3")
}

func TestReceiveStaleGeneration(t *testing.T) {
	l := newLink()
	p := &port{out: l.toLeft, in: l.toRight, neighbor: 0, side: LeftSide}
	l.toRight <- handoff{generation: 4, value: 1}

	_, err := p.receive(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestReceiveCancelled(t *testing.T) {
	l := newLink()
	p := &port{out: l.toLeft, in: l.toRight, neighbor: 0, side: LeftSide}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.receive(ctx, 1, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
