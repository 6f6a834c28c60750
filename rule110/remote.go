package rule110

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"strings"

	"uk.ac.bris.cs/rule110/rule110/stubs"
)

// RunRemote asks the server at addr to run the automaton. Workers > 0 selects
// the parallel strategy, otherwise the server runs the sequential baseline.
// Errors reported by the server are mapped back onto this package's
// sentinels.
func RunRemote(ctx context.Context, addr string, p Params, initial Tape) (Tape, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	client := rpc.NewClient(conn)
	defer client.Close()

	method := stubs.RunSequential
	if p.Workers > 0 {
		method = stubs.Run
	}
	req := stubs.Request{
		Tape:        initial,
		Generations: p.Generations,
		Workers:     p.Workers,
		Wrap:        p.Boundary == WrapBoundary,
		Rule:        uint8(p.Rule),
	}
	res, err := makeCall(ctx, client, method, req)
	if err != nil {
		return nil, remoteError(err)
	}
	p.logger().Info("remote run finished",
		"addr", addr,
		"run_id", res.RunID,
		"generations", res.GenerationsCompleted,
		"alive", res.AliveCells)
	return Tape(res.FinalTape), nil
}

func makeCall(ctx context.Context, client *rpc.Client, method string, req stubs.Request) (*stubs.Response, error) {
	res := new(stubs.Response)
	call := client.Go(method, req, res, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		if call.Error != nil {
			return nil, call.Error
		}
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

var remoteSentinels = []error{
	ErrInvalidPartitionRequest,
	ErrBoundaryExchangeFailed,
	ErrInvariantViolation,
	ErrInvalidTape,
	ErrInvalidGenerations,
}

// remoteError restores the sentinel an rpc.ServerError was built from.
func remoteError(err error) error {
	var se rpc.ServerError
	if !errors.As(err, &se) {
		return err
	}
	for _, s := range remoteSentinels {
		if strings.Contains(string(se), s.Error()) {
			return fmt.Errorf("%w: remote: %s", s, string(se))
		}
	}
	return fmt.Errorf("remote: %s", string(se))
}
