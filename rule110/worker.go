package rule110

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// WorkerState is a worker's position in its per-generation cycle.
type WorkerState int32

const (
	Idle WorkerState = iota
	ComputingInterior
	ExchangingBoundary
	ComputingBoundary
	Published
	Done
)

func (s WorkerState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ComputingInterior:
		return "ComputingInterior"
	case ExchangingBoundary:
		return "ExchangingBoundary"
	case ComputingBoundary:
		return "ComputingBoundary"
	case Published:
		return "Published"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("WorkerState(%d)", int32(s))
}

// arrival tells the distributor that a worker published a generation.
type arrival struct {
	worker     int
	generation int
}

// worker owns the cells of one partition for the whole run. cur holds
// generation g and next receives generation g+1; they swap once both edges
// are computed.
type worker struct {
	part        Partition
	rule        Rule
	generations int

	cur  []uint8
	next []uint8

	left  *port
	right *port

	arrive  chan<- arrival
	release <-chan struct{}

	state  atomic.Int32
	logger *slog.Logger

	// beforeExchange runs ahead of each exchange step; tests use it to
	// inject faults.
	beforeExchange func(worker, generation int) error
}

func newWorker(part Partition, initial Tape, p Params, left, right *port, arrive chan<- arrival, release <-chan struct{}) *worker {
	w := &worker{
		part:        part,
		rule:        p.rule(),
		generations: p.Generations,
		cur:         make([]uint8, part.Len()),
		next:        make([]uint8, part.Len()),
		left:        left,
		right:       right,
		arrive:      arrive,
		release:     release,
		logger:      p.logger().With("worker", part.Index),
	}
	copy(w.cur, initial[part.Start:part.End])
	return w
}

func (w *worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

func (w *worker) setState(s WorkerState) {
	w.state.Store(int32(s))
}

// run computes every generation, meeting the distributor's barrier after
// each one.
func (w *worker) run(ctx context.Context) error {
	for g := 0; g < w.generations; g++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.step(ctx, g); err != nil {
			return err
		}
		w.setState(Published)
		select {
		case w.arrive <- arrival{worker: w.part.Index, generation: g}:
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case <-w.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.setState(Done)
	w.logger.Debug("worker done", "start", w.part.Start, "end", w.part.End, "generations", w.generations)
	return nil
}

// step advances the partition from generation g to g+1.
func (w *worker) step(ctx context.Context, g int) error {
	w.setState(ComputingInterior)
	w.computeInterior()

	w.setState(ExchangingBoundary)
	if w.beforeExchange != nil {
		if err := w.beforeExchange(w.part.Index, g); err != nil {
			return err
		}
	}
	left, right, err := w.exchange(ctx, g)
	if err != nil {
		return err
	}

	w.setState(ComputingBoundary)
	w.computeBoundary(left, right)
	w.cur, w.next = w.next, w.cur
	return nil
}

// computeInterior only touches cells whose neighbours are both local. A
// partition of one or two cells has none.
func (w *worker) computeInterior() {
	c := w.cur
	for i := 1; i < len(c)-1; i++ {
		w.next[i] = w.rule.Next(c[i-1], c[i], c[i+1])
	}
}

// exchange publishes both edge cells of the current generation, then waits
// for the neighbours' edges. Fixed tape edges read as 0.
func (w *worker) exchange(ctx context.Context, g int) (left, right uint8, err error) {
	last := len(w.cur) - 1
	if w.left != nil {
		if err := w.left.publish(g, w.cur[0]); err != nil {
			return 0, 0, err
		}
	}
	if w.right != nil {
		if err := w.right.publish(g, w.cur[last]); err != nil {
			return 0, 0, err
		}
	}
	if w.left != nil {
		if left, err = w.left.receive(ctx, w.part.Index, g); err != nil {
			return 0, 0, err
		}
	}
	if w.right != nil {
		if right, err = w.right.receive(ctx, w.part.Index, g); err != nil {
			return 0, 0, err
		}
	}
	return left, right, nil
}

func (w *worker) computeBoundary(left, right uint8) {
	c := w.cur
	last := len(c) - 1
	if last == 0 {
		w.next[0] = w.rule.Next(left, c[0], right)
		return
	}
	w.next[0] = w.rule.Next(left, c[0], c[1])
	w.next[last] = w.rule.Next(c[last-1], c[last], right)
}

// closePorts closes the worker's outbound slots so blocked neighbours see
// the link as broken.
func (w *worker) closePorts() {
	w.left.close()
	w.right.close()
}
