package rule110

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPartitionRequest is returned before any work starts when the
	// worker count does not fit the tape (0 workers or more workers than cells).
	ErrInvalidPartitionRequest = errors.New("invalid partition request")

	// ErrBoundaryExchangeFailed means a worker lost a neighbour's handoff.
	// The whole run is aborted.
	ErrBoundaryExchangeFailed = errors.New("boundary exchange failed")

	// ErrInvariantViolation marks an internal consistency failure.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrInvalidTape        = errors.New("invalid tape")
	ErrInvalidGenerations = errors.New("invalid generation count")
)

// Side names which neighbour of a partition a handoff comes from.
type Side int

const (
	LeftSide Side = iota
	RightSide
)

func (s Side) String() string {
	if s == LeftSide {
		return "left"
	}
	return "right"
}

// ExchangeError describes a handoff a worker could not obtain.
type ExchangeError struct {
	Worker     int
	Neighbor   int
	Side       Side
	Generation int
	Err        error
}

func (e *ExchangeError) Error() string {
	msg := fmt.Sprintf("%v: worker %d, %s neighbour %d, generation %d",
		ErrBoundaryExchangeFailed, e.Worker, e.Side, e.Neighbor, e.Generation)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBoundaryExchangeFailed}
	}
	return []error{ErrBoundaryExchangeFailed, e.Err}
}

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariantViolation}, args...)...)
}
