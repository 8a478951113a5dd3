package core

type Step struct {
	Region     int
	Action     Action
	NextRegion int
	Failed     bool
}

// Trace records the ticks of one episode. Episodes end with a failure or
// with the step budget.
type Trace struct {
	steps []Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]Step, 0),
	}
}

func (t *Trace) AddStep(s Step) {
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) Step {
	return t.steps[i]
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Last() (Step, bool) {
	if len(t.steps) == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// EndedInFailure reports whether the last recorded tick left the envelope.
func (t *Trace) EndedInFailure() bool {
	last, ok := t.Last()
	return ok && last.Failed
}
