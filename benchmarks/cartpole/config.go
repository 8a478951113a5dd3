package cartpole

import (
	"github.com/zeu5/pole-balancing/benchmarks/common"
	"github.com/zeu5/pole-balancing/core"
	"github.com/zeu5/pole-balancing/policies"
)

// Config gathers everything a single balancing run needs.
type Config struct {
	StepBudget    int
	FailureBudget int

	ActorLearningRate  float64
	CriticLearningRate float64
	Discount           float64
	ActorTraceDecay    float64
	CriticTraceDecay   float64
	FailurePenalty     float64

	Seed uint64
}

// DefaultConfig is the reference configuration of the boxes experiment.
func DefaultConfig() Config {
	params := policies.DefaultActorCriticParams(NumBoxes)
	return Config{
		StepBudget:         100000,
		FailureBudget:      100,
		ActorLearningRate:  params.ActorLearningRate,
		CriticLearningRate: params.CriticLearningRate,
		Discount:           params.Discount,
		ActorTraceDecay:    params.ActorTraceDecay,
		CriticTraceDecay:   params.CriticTraceDecay,
		FailurePenalty:     params.FailurePenalty,
	}
}

func ConfigFromFlags(flags *common.Flags) Config {
	return Config{
		StepBudget:         flags.StepBudget,
		FailureBudget:      flags.FailureBudget,
		ActorLearningRate:  flags.ActorLearningRate,
		CriticLearningRate: flags.CriticLearningRate,
		Discount:           flags.Discount,
		ActorTraceDecay:    flags.ActorTraceDecay,
		CriticTraceDecay:   flags.CriticTraceDecay,
		FailurePenalty:     flags.FailurePenalty,
		Seed:               flags.Seed,
	}
}

func (c Config) ActorCriticParams() policies.ActorCriticParams {
	return policies.ActorCriticParams{
		Regions:            NumBoxes,
		ActorLearningRate:  c.ActorLearningRate,
		CriticLearningRate: c.CriticLearningRate,
		Discount:           c.Discount,
		ActorTraceDecay:    c.ActorTraceDecay,
		CriticTraceDecay:   c.CriticTraceDecay,
		FailurePenalty:     c.FailurePenalty,
		Seed:               c.Seed,
	}
}

func (c Config) RunConfig(hooks ...core.TickHook) *core.RunConfig {
	return &core.RunConfig{
		StepBudget:    c.StepBudget,
		FailureBudget: c.FailureBudget,
		Hooks:         hooks,
	}
}

// Validate rejects the configuration before anything runs.
func (c Config) Validate() error {
	if err := c.RunConfig().Validate(); err != nil {
		return err
	}
	return c.ActorCriticParams().Validate()
}
