package rule110

// Rule is an elementary cellular automaton rule in Wolfram code. Bit k of the
// rule is the next state of a cell whose neighbourhood (left, self, right)
// reads as the 3-bit number k.
type Rule uint8

// Rule110 maps 000..111 to 0,1,1,1,0,1,1,0.
const Rule110 Rule = 110

// Next returns the next state of the centre cell.
func (r Rule) Next(left, self, right uint8) uint8 {
	return uint8(r>>(left<<2|self<<1|right)) & 1
}
