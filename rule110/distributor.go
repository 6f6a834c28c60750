package rule110

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type distributorChannels struct {
	events   chan<- Event
	arrivals chan arrival
	releases []chan struct{}
}

// distributor spawns one worker per partition and drives the generation
// barrier. No worker starts generation g+1 until every worker has published
// generation g.
type distributor struct {
	p       Params
	n       int
	parts   []Partition
	workers []*worker
	c       distributorChannels
	logger  *slog.Logger

	failOnce sync.Once
	failure  error
}

// Run computes p.Generations generations of initial using p.Workers workers
// and returns the final tape. The result is identical to Sequential for the
// same Params. If events is non-nil, progress is reported on it and it is
// closed when Run returns.
//
// A failed worker aborts the whole run and no tape is returned.
func Run(ctx context.Context, p Params, initial Tape, events chan<- Event) (Tape, error) {
	if events != nil {
		defer close(events)
	}
	return runParallel(ctx, p, initial, events, nil)
}

// RunParallel is Run with the default rule and fixed boundaries.
func RunParallel(ctx context.Context, initial Tape, generations, workers int) (Tape, error) {
	return Run(ctx, Params{Generations: generations, Workers: workers}, initial, nil)
}

func runParallel(ctx context.Context, p Params, initial Tape, events chan<- Event, hook func(worker, generation int) error) (out Tape, err error) {
	runID := uuid.NewString()
	logger := p.logger().With("run_id", runID, "strategy", strategyParallel)
	started := time.Now()

	ctx, span := tracer.Start(ctx, "rule110.Run", trace.WithAttributes(
		attribute.String("rule110.run_id", runID),
		attribute.Int("rule110.cells", len(initial)),
		attribute.Int("rule110.generations", p.Generations),
		attribute.Int("rule110.workers", p.Workers),
		attribute.String("rule110.boundary", p.Boundary.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Error("run failed", "error", err)
		}
		span.End()
		runsTotal.WithLabelValues(strategyParallel, result(err)).Inc()
		runDuration.WithLabelValues(strategyParallel).Observe(time.Since(started).Seconds())
	}()

	if err := p.validate(initial); err != nil {
		return nil, err
	}
	p.Logger = logger
	d, err := newDistributor(p, initial, events)
	if err != nil {
		return nil, err
	}
	for _, w := range d.workers {
		w.beforeExchange = hook
	}

	logger.Info("run started",
		"cells", len(initial),
		"generations", p.Generations,
		"workers", p.Workers,
		"boundary", p.Boundary.String())

	out, err = d.run(ctx)
	if err != nil {
		if errors.Is(err, ErrBoundaryExchangeFailed) {
			exchangeFailures.Inc()
		}
		return nil, fmt.Errorf("run %s aborted: %w", runID, err)
	}
	logger.Info("run finished", "alive", out.Alive(), "duration", time.Since(started))
	return out, nil
}

func newDistributor(p Params, initial Tape, events chan<- Event) (*distributor, error) {
	n := len(initial)
	parts, err := Partitions(n, p.Workers, p.Boundary)
	if err != nil {
		return nil, err
	}
	if err := checkTiling(parts, n); err != nil {
		return nil, err
	}

	d := &distributor{
		p:      p,
		n:      n,
		parts:  parts,
		logger: p.logger(),
		c: distributorChannels{
			events:   events,
			arrivals: make(chan arrival, len(parts)),
			releases: make([]chan struct{}, len(parts)),
		},
	}
	links := newLinks(len(parts), p.Boundary)
	d.workers = make([]*worker, len(parts))
	for i, part := range parts {
		d.c.releases[i] = make(chan struct{}, 1)
		left, right := ports(part, links)
		d.workers[i] = newWorker(part, initial, p, left, right, d.c.arrivals, d.c.releases[i])
	}
	return d, nil
}

// fail records the first fatal error of the run.
func (d *distributor) fail(err error) {
	d.failOnce.Do(func() { d.failure = err })
}

func (d *distributor) run(ctx context.Context) (Tape, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range d.workers {
		w := w
		g.Go(func() error {
			err := w.run(gctx)
			if err != nil {
				// Record before closing so the cause wins over the
				// neighbours' broken-link errors.
				d.fail(err)
			}
			w.closePorts()
			return err
		})
	}

	if err := d.drive(gctx); err != nil {
		d.fail(err)
		cancel()
	}
	if err := g.Wait(); err != nil {
		d.fail(err)
	}
	if d.failure != nil {
		return nil, d.failure
	}

	out, err := d.collect()
	if err != nil {
		return nil, err
	}
	if err := d.emit(ctx, FinalTurnComplete{CompletedTurns: d.p.Generations, Alive: out.Alive()}); err != nil {
		return nil, err
	}
	if err := d.emit(ctx, StateChange{CompletedTurns: d.p.Generations, NewState: Quitting}); err != nil {
		return nil, err
	}
	return out, nil
}

// drive runs the barrier: for every generation it waits for all workers to
// publish, then releases them together.
func (d *distributor) drive(ctx context.Context) error {
	if err := d.emit(ctx, StateChange{CompletedTurns: 0, NewState: Executing}); err != nil {
		return err
	}
	for turn := 0; turn < d.p.Generations; turn++ {
		start := time.Now()
		for k := 0; k < len(d.workers); k++ {
			select {
			case a := <-d.c.arrivals:
				if a.generation != turn {
					return invariantf("worker %d published generation %d during generation %d",
						a.worker, a.generation, turn)
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		barrierWait.Observe(time.Since(start).Seconds())
		generationsTotal.WithLabelValues(strategyParallel).Inc()

		if err := d.emit(ctx, TurnComplete{CompletedTurns: turn + 1}); err != nil {
			return err
		}
		for _, r := range d.c.releases {
			r <- struct{}{}
		}
	}
	return nil
}

// collect concatenates the partitions in index order.
func (d *distributor) collect() (Tape, error) {
	out := make(Tape, d.n)
	for _, w := range d.workers {
		if w.State() != Done {
			return nil, invariantf("worker %d finished in state %v", w.part.Index, w.State())
		}
		if len(w.cur) != w.part.Len() {
			return nil, invariantf("worker %d holds %d cells, owns %d", w.part.Index, len(w.cur), w.part.Len())
		}
		copy(out[w.part.Start:w.part.End], w.cur)
	}
	return out, nil
}

func (d *distributor) emit(ctx context.Context, e Event) error {
	if d.c.events == nil {
		return nil
	}
	select {
	case d.c.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
