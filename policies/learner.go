package policies

import (
	"math"

	"github.com/zeu5/pole-balancing/core"
	"github.com/zeu5/pole-balancing/util"
	"gonum.org/v1/gonum/floats"
)

// logisticClamp bounds the input of the logistic function
const logisticClamp = 50.0

// RandomSource draws uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// Learner holds the per-region state of the actor (associative search
// element) and the critic (adaptive critic element): weights and
// eligibility traces, one entry per region.
type Learner struct {
	actor       []float64
	critic      []float64
	actorTrace  []float64
	criticTrace []float64
}

func NewLearner(regions int) *Learner {
	return &Learner{
		actor:       make([]float64, regions),
		critic:      make([]float64, regions),
		actorTrace:  make([]float64, regions),
		criticTrace: make([]float64, regions),
	}
}

func (l *Learner) Regions() int {
	return len(l.actor)
}

// Reset zeroes weights and traces
func (l *Learner) Reset() {
	clear(l.actor)
	clear(l.critic)
	clear(l.actorTrace)
	clear(l.criticTrace)
}

// ProbPushPositive is the logistic squashing of an actor weight.
func ProbPushPositive(weight float64) float64 {
	s := math.Max(-logisticClamp, math.Min(weight, logisticClamp))
	return 1.0 / (1.0 + math.Exp(-s))
}

// SelectAction samples the action for region. It does not touch the traces.
func (l *Learner) SelectAction(region int, src RandomSource) core.Action {
	if src.Float64() < ProbPushPositive(l.actor[region]) {
		return core.PushPositive
	}
	return core.PushNegative
}

// RecordDecision credits region with the action just taken.
func (l *Learner) RecordDecision(region int, action core.Action, actorDecay, criticDecay float64) {
	y := 0.0
	if action == core.PushPositive {
		y = 1.0
	}
	l.actorTrace[region] += (1 - actorDecay) * (y - 0.5)
	l.criticTrace[region] += 1 - criticDecay
}

// Learn computes the temporal-difference error and applies it to every
// region in proportion to its eligibility.
func (l *Learner) Learn(prev, reward, next, actorRate, criticRate, discount float64) float64 {
	delta := reward + discount*next - prev
	floats.AddScaled(l.actor, actorRate*delta, l.actorTrace)
	floats.AddScaled(l.critic, criticRate*delta, l.criticTrace)
	return delta
}

// DecayTraces clears every trace after a failure, otherwise decays them
// geometrically.
func (l *Learner) DecayTraces(failed bool, actorDecay, criticDecay float64) {
	if failed {
		clear(l.actorTrace)
		clear(l.criticTrace)
		return
	}
	floats.Scale(actorDecay, l.actorTrace)
	floats.Scale(criticDecay, l.criticTrace)
}

// Critic returns the value estimate of region, 0 for core.FailedRegion.
func (l *Learner) Critic(region int) float64 {
	if region == core.FailedRegion {
		return 0
	}
	return l.critic[region]
}

func (l *Learner) Actor(region int) float64 {
	return l.actor[region]
}

func (l *Learner) ActorWeights() []float64 {
	return util.CopyFloatSlice(l.actor)
}

func (l *Learner) CriticWeights() []float64 {
	return util.CopyFloatSlice(l.critic)
}

func (l *Learner) ActorTraces() []float64 {
	return util.CopyFloatSlice(l.actorTrace)
}

func (l *Learner) CriticTraces() []float64 {
	return util.CopyFloatSlice(l.criticTrace)
}
