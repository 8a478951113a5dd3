package core

import "context"

// FailedRegion is the region reported for states outside the valid envelope.
const FailedRegion = -1

type Environment interface {
	Reset() (State, error)
	Step(Action, *StepContext) (State, error)
}

// State is what the policies observe: a discrete region of the continuous
// state space, or FailedRegion.
type State interface {
	Region() int
}

// Failed reports whether the state lies outside the valid envelope.
func Failed(s State) bool {
	return s.Region() == FailedRegion
}

// Action is a bang-bang push of the cart.
type Action int

const (
	PushNegative Action = 0
	PushPositive Action = 1
)

func (a Action) String() string {
	if a == PushPositive {
		return "push+"
	}
	return "push-"
}

type EpisodeContext struct {
	Context   context.Context
	Episode   int
	Run       int
	StartTick int

	Trace *Trace
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

type StepContext struct {
	// Step counts the ticks of the current episode
	Step int
	// Tick counts the ticks of the whole run
	Tick int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}
