package rule110

import "fmt"

// EdgeNeighbor stands in for a neighbour index beyond the tape edge.
const EdgeNeighbor = -1

// Partition is the half-open range [Start, End) owned by worker Index.
type Partition struct {
	Index int
	Start int
	End   int
	// Left and Right are the indices of the adjacent partitions, or
	// EdgeNeighbor at a fixed tape edge.
	Left  int
	Right int
}

func (p Partition) Len() int { return p.End - p.Start }

// Partitions splits a tape of n cells into p balanced contiguous blocks. The
// first n%p blocks hold one extra cell.
func Partitions(n, p int, b Boundary) ([]Partition, error) {
	if p < 1 || p > n {
		return nil, fmt.Errorf("%w: %d workers for %d cells", ErrInvalidPartitionRequest, p, n)
	}
	base, extra := n/p, n%p
	parts := make([]Partition, p)
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		parts[i] = Partition{
			Index: i,
			Start: start,
			End:   start + size,
			Left:  i - 1,
			Right: i + 1,
		}
		start += size
	}
	parts[p-1].Right = EdgeNeighbor
	parts[0].Left = EdgeNeighbor
	if b == WrapBoundary {
		parts[0].Left = p - 1
		parts[p-1].Right = 0
	}
	return parts, nil
}

// checkTiling verifies that parts are ordered, non-empty and cover [0, n)
// exactly.
func checkTiling(parts []Partition, n int) error {
	next := 0
	for i, p := range parts {
		if p.Index != i {
			return invariantf("partition %d carries index %d", i, p.Index)
		}
		if p.Start != next {
			return invariantf("partition %d starts at %d, want %d", i, p.Start, next)
		}
		if p.Len() < 1 {
			return invariantf("partition %d is empty", i)
		}
		next = p.End
	}
	if next != n {
		return invariantf("partitions cover [0, %d), want [0, %d)", next, n)
	}
	return nil
}
