package rule110

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Sequential computes p.Generations generations of initial on the calling
// goroutine. p.Workers is ignored. It is the reference Run is checked
// against.
func Sequential(ctx context.Context, p Params, initial Tape) (out Tape, err error) {
	started := time.Now()
	ctx, span := tracer.Start(ctx, "rule110.Sequential", trace.WithAttributes(
		attribute.Int("rule110.cells", len(initial)),
		attribute.Int("rule110.generations", p.Generations),
		attribute.String("rule110.boundary", p.Boundary.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		runsTotal.WithLabelValues(strategySequential, result(err)).Inc()
		runDuration.WithLabelValues(strategySequential).Observe(time.Since(started).Seconds())
	}()

	if err := p.validate(initial); err != nil {
		return nil, err
	}
	rule := p.rule()
	cur, next := initial.Clone(), NewTape(len(initial))
	for g := 0; g < p.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		Step(rule, p.Boundary, cur, next)
		cur, next = next, cur
	}
	generationsTotal.WithLabelValues(strategySequential).Add(float64(p.Generations))
	p.logger().Debug("sequential run finished", "cells", len(initial), "generations", p.Generations, "alive", cur.Alive())
	return cur, nil
}

// RunSequential is Sequential with the default rule and fixed boundaries.
func RunSequential(initial Tape, generations int) (Tape, error) {
	return Sequential(context.Background(), Params{Generations: generations, Workers: 1}, initial)
}

// Step writes the generation after cur into next. Both must have the same
// length of at least two cells.
func Step(rule Rule, b Boundary, cur, next Tape) {
	last := len(cur) - 1
	var left, right uint8
	if b == WrapBoundary {
		left, right = cur[last], cur[0]
	}
	next[0] = rule.Next(left, cur[0], cur[1])
	for i := 1; i < last; i++ {
		next[i] = rule.Next(cur[i-1], cur[i], cur[i+1])
	}
	next[last] = rule.Next(cur[last-1], cur[last], right)
}
