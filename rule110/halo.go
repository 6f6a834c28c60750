package rule110

import (
	"context"
	"errors"
)

var errClosed = errors.New("channel closed")

// handoff is one edge cell published for a generation.
type handoff struct {
	generation int
	value      uint8
}

// link is the exchange channel across the boundary between partition i and
// the partition to its right. Each direction holds at most one value, has
// exactly one producer and is closed only by that producer.
type link struct {
	toRight chan handoff
	toLeft  chan handoff
}

func newLink() *link {
	return &link{
		toRight: make(chan handoff, 1),
		toLeft:  make(chan handoff, 1),
	}
}

// newLinks builds one link per boundary. Link i joins partition i to
// partition i+1, and under WrapBoundary link p-1 joins the last partition to
// the first.
func newLinks(p int, b Boundary) []*link {
	n := p - 1
	if b == WrapBoundary {
		n = p
	}
	links := make([]*link, n)
	for i := range links {
		links[i] = newLink()
	}
	return links
}

// port is one worker's end of a link.
type port struct {
	out      chan<- handoff
	in       <-chan handoff
	neighbor int
	side     Side
}

// ports returns the left and right ports of a partition. A nil port is a
// fixed tape edge.
func ports(part Partition, links []*link) (left, right *port) {
	if part.Left != EdgeNeighbor {
		l := links[part.Left]
		left = &port{out: l.toLeft, in: l.toRight, neighbor: part.Left, side: LeftSide}
	}
	if part.Right != EdgeNeighbor {
		r := links[part.Index]
		right = &port{out: r.toRight, in: r.toLeft, neighbor: part.Right, side: RightSide}
	}
	return left, right
}

// publish places v in the outbound slot for generation g. The barrier
// guarantees the neighbour drained the previous value, so a full slot is a
// protocol fault rather than backpressure.
func (p *port) publish(g int, v uint8) error {
	select {
	case p.out <- handoff{generation: g, value: v}:
		return nil
	default:
		return invariantf("%s handoff slot still full at generation %d", p.side, g)
	}
}

// receive blocks until the neighbour's value for generation g arrives.
func (p *port) receive(ctx context.Context, worker, g int) (uint8, error) {
	select {
	case h, ok := <-p.in:
		if !ok {
			return 0, &ExchangeError{Worker: worker, Neighbor: p.neighbor, Side: p.side, Generation: g, Err: errClosed}
		}
		if h.generation != g {
			return 0, invariantf("worker %d got %s handoff for generation %d during generation %d",
				worker, p.side, h.generation, g)
		}
		return h.value, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (p *port) close() {
	if p != nil {
		close(p.out)
	}
}
