package rule110

import (
	"fmt"
	"strings"
)

// MinTapeLength is the shortest tape that has a full neighbourhood.
const MinTapeLength = 3

// Tape is one generation of cells. Every element is 0 or 1.
type Tape []uint8

// NewTape returns an all-zero tape of length n.
func NewTape(n int) Tape {
	return make(Tape, n)
}

// ParseTape reads a tape written as a string of '0' and '1'.
func ParseTape(s string) (Tape, error) {
	t := make(Tape, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			t[i] = 1
		default:
			return nil, fmt.Errorf("%w: character %q at %d", ErrInvalidTape, c, i)
		}
	}
	return t, t.Validate()
}

// WolframSeed is the MathWorld Rule 110 example: n-2 dead cells followed by
// a live cell and a dead cell.
func WolframSeed(n int) Tape {
	t := NewTape(n)
	if n >= 2 {
		t[n-2] = 1
	}
	return t
}

// SingleCell returns a tape whose rightmost cell is alive.
func SingleCell(n int) Tape {
	t := NewTape(n)
	if n >= 1 {
		t[n-1] = 1
	}
	return t
}

// Validate checks the length and that every cell is a bit.
func (t Tape) Validate() error {
	if len(t) < MinTapeLength {
		return fmt.Errorf("%w: length %d, need at least %d", ErrInvalidTape, len(t), MinTapeLength)
	}
	for i, c := range t {
		if c > 1 {
			return fmt.Errorf("%w: cell %d has value %d", ErrInvalidTape, i, c)
		}
	}
	return nil
}

func (t Tape) Clone() Tape {
	c := make(Tape, len(t))
	copy(c, t)
	return c
}

func (t Tape) Equal(o Tape) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// Alive counts the live cells.
func (t Tape) Alive() int {
	n := 0
	for _, c := range t {
		n += int(c)
	}
	return n
}

func (t Tape) String() string {
	var b strings.Builder
	b.Grow(len(t))
	for _, c := range t {
		if c == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
