package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/pole-balancing/core"
	erand "golang.org/x/exp/rand"
)

// ActorCriticParams configures the actor-critic learner. The reference
// values are those of the classic boxes experiment.
type ActorCriticParams struct {
	Regions int

	ActorLearningRate  float64
	CriticLearningRate float64
	Discount           float64
	ActorTraceDecay    float64
	CriticTraceDecay   float64
	// FailurePenalty is the reinforcement received on failure, zero otherwise
	FailurePenalty float64

	Seed uint64
}

func DefaultActorCriticParams(regions int) ActorCriticParams {
	return ActorCriticParams{
		Regions:            regions,
		ActorLearningRate:  1000,
		CriticLearningRate: 0.5,
		Discount:           0.95,
		ActorTraceDecay:    0.9,
		CriticTraceDecay:   0.8,
		FailurePenalty:     -1,
	}
}

func (p ActorCriticParams) Validate() error {
	if p.Regions <= 0 {
		return fmt.Errorf("%w: number of regions must be positive, got %d", core.ErrInvalidConfig, p.Regions)
	}
	if !(p.ActorTraceDecay > 0 && p.ActorTraceDecay < 1) {
		return fmt.Errorf("%w: actor trace decay must be in (0,1), got %v", core.ErrInvalidConfig, p.ActorTraceDecay)
	}
	if !(p.CriticTraceDecay > 0 && p.CriticTraceDecay < 1) {
		return fmt.Errorf("%w: critic trace decay must be in (0,1), got %v", core.ErrInvalidConfig, p.CriticTraceDecay)
	}
	if !(p.Discount >= 0 && p.Discount < 1) {
		return fmt.Errorf("%w: discount must be in [0,1), got %v", core.ErrInvalidConfig, p.Discount)
	}
	if !validRate(p.ActorLearningRate) {
		return fmt.Errorf("%w: actor learning rate must be finite and non-negative, got %v", core.ErrInvalidConfig, p.ActorLearningRate)
	}
	if !validRate(p.CriticLearningRate) {
		return fmt.Errorf("%w: critic learning rate must be finite and non-negative, got %v", core.ErrInvalidConfig, p.CriticLearningRate)
	}
	if math.IsNaN(p.FailurePenalty) || math.IsInf(p.FailurePenalty, 0) {
		return fmt.Errorf("%w: failure penalty must be finite, got %v", core.ErrInvalidConfig, p.FailurePenalty)
	}
	return nil
}

func validRate(r float64) bool {
	return r >= 0 && !math.IsInf(r, 1)
}

// ActorCritic balances the plant with a stochastic actor trained by the
// temporal-difference error of a critic. Weights survive failures, traces do
// not.
type ActorCritic struct {
	params  ActorCriticParams
	learner *Learner
	rand    *erand.Rand

	lastDelta float64
}

var _ core.Policy = &ActorCritic{}

func NewActorCritic(params ActorCriticParams) (*ActorCritic, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ActorCritic{
		params:  params,
		learner: NewLearner(params.Regions),
		rand:    erand.New(erand.NewSource(params.Seed)),
	}, nil
}

func (a *ActorCritic) Learner() *Learner {
	return a.learner
}

func (a *ActorCritic) Params() ActorCriticParams {
	return a.params
}

// LastDelta is the temporal-difference error of the latest update.
func (a *ActorCritic) LastDelta() float64 {
	return a.lastDelta
}

// Reset forgets everything learned and reseeds the random source
func (a *ActorCritic) Reset() {
	a.learner.Reset()
	a.rand.Seed(a.params.Seed)
	a.lastDelta = 0
}

func (a *ActorCritic) ResetEpisode(_ *core.EpisodeContext) {}

func (a *ActorCritic) UpdateEpisode(_ *core.EpisodeContext) {}

func (a *ActorCritic) PickAction(_ *core.StepContext, state core.State) core.Action {
	return a.learner.SelectAction(state.Region(), a.rand)
}

func (a *ActorCritic) RecordAction(_ *core.StepContext, state core.State, action core.Action) {
	a.learner.RecordDecision(state.Region(), action, a.params.ActorTraceDecay, a.params.CriticTraceDecay)
}

func (a *ActorCritic) UpdateStep(_ *core.StepContext, state core.State, _ core.Action, nextState core.State) {
	prev := a.learner.Critic(state.Region())
	failed := core.Failed(nextState)

	reward := 0.0
	if failed {
		reward = a.params.FailurePenalty
	}
	// Critic returns 0 for the failed region
	next := a.learner.Critic(nextState.Region())

	a.lastDelta = a.learner.Learn(prev, reward, next, a.params.ActorLearningRate, a.params.CriticLearningRate, a.params.Discount)
	a.learner.DecayTraces(failed, a.params.ActorTraceDecay, a.params.CriticTraceDecay)
}

type ActorCriticConstructor struct {
	params ActorCriticParams
}

var _ core.PolicyConstructor = &ActorCriticConstructor{}

func NewActorCriticConstructor(params ActorCriticParams) (*ActorCriticConstructor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ActorCriticConstructor{params: params}, nil
}

// NewPolicy seeds every run differently
func (c *ActorCriticConstructor) NewPolicy(run int) core.Policy {
	params := c.params
	params.Seed += uint64(run)
	policy, err := NewActorCritic(params)
	if err != nil {
		// params were validated by the constructor
		panic(err)
	}
	return policy
}
