package rule110

import "fmt"

// Event is reported by a run on its events channel.
type Event interface {
	fmt.Stringer
	GetCompletedTurns() int
}

// State is the coarse state of a run.
type State int

const (
	Executing State = iota
	Quitting
)

func (s State) String() string {
	switch s {
	case Executing:
		return "Executing"
	case Quitting:
		return "Quitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateChange is sent when the run starts executing and when it quits.
type StateChange struct {
	CompletedTurns int
	NewState       State
}

// TurnComplete is sent after every worker has published a generation.
type TurnComplete struct {
	CompletedTurns int
}

// FinalTurnComplete carries the number of live cells on the final tape.
type FinalTurnComplete struct {
	CompletedTurns int
	Alive          int
}

func (e StateChange) String() string {
	return fmt.Sprintf("Completed Turns %-8v%v", e.CompletedTurns, e.NewState)
}

func (e StateChange) GetCompletedTurns() int { return e.CompletedTurns }

func (e TurnComplete) String() string {
	return fmt.Sprintf("Completed Turns %-8v", e.CompletedTurns)
}

func (e TurnComplete) GetCompletedTurns() int { return e.CompletedTurns }

func (e FinalTurnComplete) String() string {
	return fmt.Sprintf("Completed Turns %-8vAlive Cells %v", e.CompletedTurns, e.Alive)
}

func (e FinalTurnComplete) GetCompletedTurns() int { return e.CompletedTurns }
