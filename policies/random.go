package policies

import (
	"github.com/zeu5/pole-balancing/core"
	erand "golang.org/x/exp/rand"
)

// RandomPolicy pushes in either direction with equal probability.
type RandomPolicy struct {
	seed uint64
	rand *erand.Rand
}

var _ core.Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		seed: seed,
		rand: erand.New(erand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {
	r.rand.Seed(r.seed)
}

func (r *RandomPolicy) UpdateEpisode(_ *core.EpisodeContext) {}

func (r *RandomPolicy) PickAction(_ *core.StepContext, _ core.State) core.Action {
	if r.rand.Intn(2) == 1 {
		return core.PushPositive
	}
	return core.PushNegative
}

func (r *RandomPolicy) RecordAction(_ *core.StepContext, _ core.State, _ core.Action) {}

func (r *RandomPolicy) UpdateStep(_ *core.StepContext, _ core.State, _ core.Action, _ core.State) {}

func (r *RandomPolicy) ResetEpisode(_ *core.EpisodeContext) {}

type RandomPolicyConstructor struct {
	Seed uint64
}

var _ core.PolicyConstructor = &RandomPolicyConstructor{}

func (r *RandomPolicyConstructor) NewPolicy(run int) core.Policy {
	return NewRandomPolicy(r.Seed + uint64(run))
}
