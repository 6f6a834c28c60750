package rule110

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name     string
		boundary Boundary
		in, want string
	}{
		{"fixed edges read as zero", FixedBoundary, "100", "100"},
		{"right edge grows left", FixedBoundary, "001", "011"},
		{"wrap joins the ends", WrapBoundary, "100", "101"},
		{"all ones", FixedBoundary, "1111", "1001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, err := ParseTape(tt.in)
			require.NoError(t, err)
			next := NewTape(len(cur))
			Step(Rule110, tt.boundary, cur, next)
			assert.Equal(t, tt.want, next.String())
		})
	}
}

func TestRunSequential(t *testing.T) {
	got, err := RunSequential(SingleCell(16), 7)
	require.NoError(t, err)
	assert.Equal(t, "0000000011010111", got.String())

	got, err = RunSequential(Tape{1, 0, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, Tape{1, 0, 1}, got)
}

func TestRunSequentialErrors(t *testing.T) {
	_, err := RunSequential(Tape{1, 0}, 1)
	assert.ErrorIs(t, err, ErrInvalidTape)
	_, err = RunSequential(NewTape(4), -2)
	assert.ErrorIs(t, err, ErrInvalidGenerations)
}

func TestSequentialCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Sequential(ctx, quietParams(5, 1), NewTape(8))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSequentialOtherRule(t *testing.T) {
	p := quietParams(1, 1)
	p.Rule = 90
	got, err := Sequential(context.Background(), p, Tape{0, 0, 1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, Tape{0, 1, 0, 1, 0}, got)

	got, err = Run(context.Background(), Params{Generations: 1, Workers: 2, Rule: 90, Logger: p.Logger}, Tape{0, 0, 1, 0, 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, Tape{0, 1, 0, 1, 0}, got)
}
