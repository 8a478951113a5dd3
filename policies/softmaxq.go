package policies

import (
	"fmt"
	"math"

	"github.com/zeu5/pole-balancing/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftmaxQParams configures the tabular Q-learning baseline
type SoftmaxQParams struct {
	Regions        int
	Alpha          float64
	Gamma          float64
	Temperature    float64
	FailurePenalty float64
	Seed           uint64
}

func DefaultSoftmaxQParams(regions int) SoftmaxQParams {
	return SoftmaxQParams{
		Regions:        regions,
		Alpha:          0.3,
		Gamma:          0.95,
		Temperature:    0.05,
		FailurePenalty: -1,
	}
}

func (p SoftmaxQParams) Validate() error {
	if p.Regions <= 0 {
		return fmt.Errorf("%w: number of regions must be positive, got %d", core.ErrInvalidConfig, p.Regions)
	}
	if !(p.Alpha > 0 && p.Alpha <= 1) {
		return fmt.Errorf("%w: alpha must be in (0,1], got %v", core.ErrInvalidConfig, p.Alpha)
	}
	if !(p.Gamma >= 0 && p.Gamma < 1) {
		return fmt.Errorf("%w: gamma must be in [0,1), got %v", core.ErrInvalidConfig, p.Gamma)
	}
	if !(p.Temperature > 0) || math.IsInf(p.Temperature, 1) {
		return fmt.Errorf("%w: temperature must be positive, got %v", core.ErrInvalidConfig, p.Temperature)
	}
	return nil
}

// SoftmaxQ is one-step Q-learning over the same regions as the actor-critic.
// The only reinforcement is the failure penalty and actions are sampled from
// the softmax of the action values.
type SoftmaxQ struct {
	params SoftmaxQParams
	qTable *QTable

	rand erand.Source
}

var _ core.Policy = &SoftmaxQ{}

func NewSoftmaxQ(params SoftmaxQParams) (*SoftmaxQ, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &SoftmaxQ{
		params: params,
		qTable: NewQTable(params.Regions),
		rand:   erand.NewSource(params.Seed),
	}, nil
}

func (s *SoftmaxQ) QTable() *QTable {
	return s.qTable
}

func (s *SoftmaxQ) Reset() {
	s.qTable.Reset()
	s.rand.Seed(s.params.Seed)
}

func (s *SoftmaxQ) ResetEpisode(_ *core.EpisodeContext) {}

func (s *SoftmaxQ) UpdateEpisode(_ *core.EpisodeContext) {}

func (s *SoftmaxQ) RecordAction(_ *core.StepContext, _ core.State, _ core.Action) {}

func (s *SoftmaxQ) PickAction(_ *core.StepContext, state core.State) core.Action {
	region := state.Region()
	_, largestValue := s.qTable.Max(region)

	// Normalizing by the largest value
	weights := make([]float64, numActions)
	sum := 0.0
	for a := 0; a < numActions; a++ {
		weights[a] = math.Exp((s.qTable.Get(region, core.Action(a)) - largestValue) / s.params.Temperature)
		sum += weights[a]
	}
	for a := range weights {
		weights[a] /= sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.rand).Take()
	if !ok {
		return core.PushNegative
	}
	return core.Action(i)
}

func (s *SoftmaxQ) UpdateStep(_ *core.StepContext, state core.State, action core.Action, nextState core.State) {
	region := state.Region()
	reward := 0.0
	nextVal := 0.0
	if core.Failed(nextState) {
		reward = s.params.FailurePenalty
	} else {
		_, nextVal = s.qTable.Max(nextState.Region())
	}
	curVal := s.qTable.Get(region, action)
	s.qTable.Set(region, action, (1-s.params.Alpha)*curVal+s.params.Alpha*(reward+s.params.Gamma*nextVal))
}

type SoftmaxQConstructor struct {
	params SoftmaxQParams
}

var _ core.PolicyConstructor = &SoftmaxQConstructor{}

func NewSoftmaxQConstructor(params SoftmaxQParams) (*SoftmaxQConstructor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &SoftmaxQConstructor{params: params}, nil
}

func (c *SoftmaxQConstructor) NewPolicy(run int) core.Policy {
	params := c.params
	params.Seed += uint64(run)
	policy, err := NewSoftmaxQ(params)
	if err != nil {
		// params were validated by the constructor
		panic(err)
	}
	return policy
}
