package cartpole

import (
	"fmt"

	"github.com/zeu5/pole-balancing/core"
)

// Observation is the state seen by the policies: the plant state and the
// region it falls in.
type Observation struct {
	State State
	Box   int
}

var _ core.State = Observation{}

func (o Observation) Region() int {
	return o.Box
}

func (o Observation) String() string {
	return fmt.Sprintf("box=%d x=%.4f x_dot=%.4f theta=%.4f theta_dot=%.4f",
		o.Box, o.State.X, o.State.XDot, o.State.Theta, o.State.ThetaDot)
}

// Env simulates the plant for the learning loop. Reset brings the plant back
// to rest.
type Env struct {
	physics Physics
	state   State
}

var _ core.Environment = &Env{}

func NewEnv(physics Physics) *Env {
	return &Env{physics: physics}
}

func (e *Env) State() State {
	return e.state
}

func (e *Env) Reset() (core.State, error) {
	e.state = State{}
	return e.observe(), nil
}

func (e *Env) Step(action core.Action, _ *core.StepContext) (core.State, error) {
	e.state = e.physics.Step(action, e.state)
	return e.observe(), nil
}

func (e *Env) observe() Observation {
	return Observation{
		State: e.state,
		Box:   Box(e.state),
	}
}

type EnvConstructor struct {
	Physics Physics
}

var _ core.EnvironmentConstructor = &EnvConstructor{}

func NewEnvConstructor(physics Physics) *EnvConstructor {
	return &EnvConstructor{Physics: physics}
}

func (c *EnvConstructor) NewEnvironment(_ int) core.Environment {
	return NewEnv(c.Physics)
}
