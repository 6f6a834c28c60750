package rule110

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRule110TruthTable(t *testing.T) {
	want := [8]uint8{0, 1, 1, 1, 0, 1, 1, 0}
	for k := 0; k < 8; k++ {
		l, c, r := uint8(k>>2&1), uint8(k>>1&1), uint8(k&1)
		assert.Equal(t, want[k], Rule110.Next(l, c, r), "neighbourhood %d%d%d", l, c, r)
	}
}

// The Karnaugh-map form of Rule 110: (!r && c) || (r && !(l && c)).
func TestRule110MatchesBooleanForm(t *testing.T) {
	b := func(x uint8) bool { return x == 1 }
	for k := 0; k < 8; k++ {
		l, c, r := uint8(k>>2&1), uint8(k>>1&1), uint8(k&1)
		expr := (!b(r) && b(c)) || (b(r) && !(b(l) && b(c)))
		assert.Equal(t, expr, Rule110.Next(l, c, r) == 1)
	}
}

func TestOtherRules(t *testing.T) {
	// Rule 90 is left XOR right.
	for k := 0; k < 8; k++ {
		l, c, r := uint8(k>>2&1), uint8(k>>1&1), uint8(k&1)
		assert.Equal(t, l^r, Rule(90).Next(l, c, r))
	}
	assert.Equal(t, uint8(0), Rule(0).Next(1, 1, 1))
	assert.Equal(t, uint8(1), Rule(255).Next(0, 0, 0))
}
