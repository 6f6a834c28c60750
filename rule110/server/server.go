// Package server exposes the Rule 110 distributor over net/rpc.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uk.ac.bris.cs/rule110/rule110"
	"uk.ac.bris.cs/rule110/rule110/stubs"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rule110_rpc_requests_total",
	Help: "Total RPC requests by method and result",
}, []string{"method", "result"})

// Rule110Operations is the RPC service. Its exported methods are the calls
// named in package stubs.
type Rule110Operations struct {
	ctx    context.Context
	logger *slog.Logger
}

func NewRule110Operations(ctx context.Context, logger *slog.Logger) *Rule110Operations {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rule110Operations{ctx: ctx, logger: logger}
}

// Run partitions the tape across req.Workers workers.
func (o *Rule110Operations) Run(req stubs.Request, res *stubs.Response) (err error) {
	defer func() { requestsTotal.WithLabelValues("Run", outcome(err)).Inc() }()
	p, tape, id, err := o.params(req)
	if err != nil {
		return err
	}
	final, err := rule110.Run(o.ctx, p, tape, nil)
	if err != nil {
		return err
	}
	fill(res, id, p, final)
	return nil
}

// RunSequential runs the single-threaded baseline.
func (o *Rule110Operations) RunSequential(req stubs.Request, res *stubs.Response) (err error) {
	defer func() { requestsTotal.WithLabelValues("RunSequential", outcome(err)).Inc() }()
	p, tape, id, err := o.params(req)
	if err != nil {
		return err
	}
	final, err := rule110.Sequential(o.ctx, p, tape)
	if err != nil {
		return err
	}
	fill(res, id, p, final)
	return nil
}

func (o *Rule110Operations) params(req stubs.Request) (rule110.Params, rule110.Tape, string, error) {
	if req.Tape == nil {
		return rule110.Params{}, nil, "", fmt.Errorf("%w: no tape received", rule110.ErrInvalidTape)
	}
	requestID := uuid.NewString()
	p := rule110.Params{
		Generations: req.Generations,
		Workers:     req.Workers,
		Rule:        rule110.Rule(req.Rule),
		Logger:      o.logger.With("request_id", requestID),
	}
	if req.Wrap {
		p.Boundary = rule110.WrapBoundary
	}
	o.logger.Info("request received",
		"request_id", requestID,
		"cells", len(req.Tape),
		"generations", req.Generations,
		"workers", req.Workers)
	return p, rule110.Tape(req.Tape), requestID, nil
}

func fill(res *stubs.Response, id string, p rule110.Params, final rule110.Tape) {
	res.RunID = id
	res.FinalTape = final
	res.GenerationsCompleted = p.Generations
	res.AliveCells = final.Alive()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve registers ops and serves RPC connections from l until ctx is done.
func Serve(ctx context.Context, l net.Listener, ops *Rule110Operations) error {
	srv := rpc.NewServer()
	if err := srv.Register(ops); err != nil {
		return fmt.Errorf("register Rule110Operations: %w", err)
	}

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	ops.logger.Info("server is listening", "addr", l.Addr().String())
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			ops.logger.Warn("error accepting connection", "error", err)
			continue
		}
		ops.logger.Debug("connected", "remote", conn.RemoteAddr().String())
		go srv.ServeConn(conn)
	}
}

// NewMetricsServer returns an HTTP server exposing Prometheus metrics on
// /metrics.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
