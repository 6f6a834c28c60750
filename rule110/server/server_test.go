package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uk.ac.bris.cs/rule110/rule110"
	"uk.ac.bris.cs/rule110/rule110/stubs"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func startServer(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, l, NewRule110Operations(ctx, quiet())) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return l.Addr().String()
}

func TestRemoteRunMatchesLocal(t *testing.T) {
	addr := startServer(t)
	ctx := context.Background()
	initial := rule110.WolframSeed(100)

	want, err := rule110.RunSequential(initial, 60)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3, 100} {
		p := rule110.Params{Generations: 60, Workers: workers, Logger: quiet()}
		got, err := rule110.RunRemote(ctx, addr, p, initial)
		require.NoError(t, err, "workers=%d", workers)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestRemoteRunWrap(t *testing.T) {
	addr := startServer(t)
	initial, err := rule110.ParseTape("1001101")
	require.NoError(t, err)
	p := rule110.Params{Generations: 5, Workers: 2, Boundary: rule110.WrapBoundary, Logger: quiet()}
	got, err := rule110.RunRemote(context.Background(), addr, p, initial)
	require.NoError(t, err)
	assert.Equal(t, "0010110", got.String())
}

func TestRemoteRunMapsErrors(t *testing.T) {
	addr := startServer(t)
	ctx := context.Background()

	_, err := rule110.RunRemote(ctx, addr, rule110.Params{Generations: 1, Workers: 9, Logger: quiet()}, rule110.NewTape(8))
	assert.ErrorIs(t, err, rule110.ErrInvalidPartitionRequest)

	_, err = rule110.RunRemote(ctx, addr, rule110.Params{Generations: 1, Workers: 1, Logger: quiet()}, rule110.Tape{0, 1})
	assert.ErrorIs(t, err, rule110.ErrInvalidTape)

	_, err = rule110.RunRemote(ctx, addr, rule110.Params{Generations: -1, Logger: quiet()}, rule110.NewTape(4))
	assert.ErrorIs(t, err, rule110.ErrInvalidGenerations)
}

func TestRunRejectsMissingTape(t *testing.T) {
	ops := NewRule110Operations(context.Background(), quiet())
	var res stubs.Response
	err := ops.Run(stubs.Request{Generations: 1, Workers: 1}, &res)
	assert.ErrorIs(t, err, rule110.ErrInvalidTape)
}

func TestRunFillsResponse(t *testing.T) {
	ops := NewRule110Operations(context.Background(), quiet())
	var res stubs.Response
	require.NoError(t, ops.Run(stubs.Request{Tape: []uint8{0, 0, 1}, Generations: 2, Workers: 3}, &res))
	assert.Equal(t, []uint8{1, 1, 1}, res.FinalTape)
	assert.Equal(t, 2, res.GenerationsCompleted)
	assert.Equal(t, 3, res.AliveCells)
	assert.NotEmpty(t, res.RunID)
}

func TestMetricsServer(t *testing.T) {
	_, err := rule110.RunSequential(rule110.NewTape(4), 1)
	require.NoError(t, err)

	srv := NewMetricsServer("127.0.0.1:0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rule110_runs_total")
}
