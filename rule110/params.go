package rule110

import (
	"fmt"
	"log/slog"
)

// Boundary selects what lies beyond the two ends of the tape.
type Boundary int

const (
	// FixedBoundary treats off-tape neighbours as dead in every generation.
	FixedBoundary Boundary = iota
	// WrapBoundary joins the ends of the tape into a ring.
	WrapBoundary
)

func (b Boundary) String() string {
	switch b {
	case FixedBoundary:
		return "fixed"
	case WrapBoundary:
		return "wrap"
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary accepts "fixed" or "wrap". The empty string means fixed.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "", "fixed":
		return FixedBoundary, nil
	case "wrap":
		return WrapBoundary, nil
	}
	return 0, fmt.Errorf("unknown boundary %q", s)
}

// Params provides the details of how to run the automaton.
type Params struct {
	Generations int
	Workers     int
	Boundary    Boundary
	// Rule defaults to Rule110 when zero.
	Rule   Rule
	Logger *slog.Logger
}

func (p Params) rule() Rule {
	if p.Rule == 0 {
		return Rule110
	}
	return p.Rule
}

func (p Params) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p Params) validate(t Tape) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if p.Generations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGenerations, p.Generations)
	}
	if p.Boundary != FixedBoundary && p.Boundary != WrapBoundary {
		return fmt.Errorf("unknown boundary %v", p.Boundary)
	}
	return nil
}
