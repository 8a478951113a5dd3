package core

// Policy picks an action for the region the plant is in and learns from the
// transition that follows. The runner calls, in order, PickAction,
// RecordAction, Environment.Step and UpdateStep once per tick.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, State) Action
	// RecordAction marks the decision taken in the current state before the
	// plant is simulated
	RecordAction(*StepContext, State, Action)
	UpdateStep(*StepContext, State, Action, State)
	Reset()
}

type PolicyConstructor interface {
	// NewPolicy creates a policy for the given run number.
	NewPolicy(int) Policy
}
