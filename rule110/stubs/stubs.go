package stubs

var Run = "Rule110Operations.Run"
var RunSequential = "Rule110Operations.RunSequential"

type Request struct {
	Tape        []uint8
	Generations int
	Workers     int
	Wrap        bool
	// Rule is a Wolfram code; zero selects Rule 110.
	Rule uint8
}

type Response struct {
	RunID                string
	FinalTape            []uint8
	GenerationsCompleted int
	AliveCells           int
}
