package cartpole

import (
	"context"

	"github.com/zeu5/pole-balancing/analysis"
	"github.com/zeu5/pole-balancing/benchmarks/common"
	"github.com/zeu5/pole-balancing/core"
	"github.com/zeu5/pole-balancing/policies"
)

// Run balances the pole from rest with the actor-critic learner until the
// step budget or the failure budget is reached. The returned policy exposes
// the learned weights.
func Run(ctx context.Context, cfg Config, hooks ...core.TickHook) (*core.ExperimentResult, *policies.ActorCritic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	policy, err := policies.NewActorCritic(cfg.ActorCriticParams())
	if err != nil {
		return nil, nil, err
	}
	exp := &core.Experiment{
		Name:        "ActorCritic",
		Environment: NewEnv(DefaultPhysics()),
		Policy:      policy,
	}
	result, err := exp.Run(ctx, cfg.RunConfig(hooks...))
	return result, policy, err
}

// PrepareComparison compares the actor-critic learner against the
// Q-learning and random baselines over flags.NumRuns seeds.
func PrepareComparison(flags *common.Flags) (*core.ParallelComparison, error) {
	cfg := ConfigFromFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	actorCritic, err := policies.NewActorCriticConstructor(cfg.ActorCriticParams())
	if err != nil {
		return nil, err
	}
	qParams := policies.DefaultSoftmaxQParams(NumBoxes)
	qParams.Alpha = flags.QAlpha
	qParams.Temperature = flags.QTemperature
	qParams.Gamma = flags.Discount
	qParams.FailurePenalty = flags.FailurePenalty
	qParams.Seed = flags.Seed
	softmaxQ, err := policies.NewSoftmaxQConstructor(qParams)
	if err != nil {
		return nil, err
	}

	cmp := core.NewParallelComparison()
	envConstructor := NewEnvConstructor(DefaultPhysics())

	if flags.Debug {
		traces, err := analysis.NewTraceAnalyzerConstructor(flags.SavePath, flags.FailureBudget-5)
		if err != nil {
			return nil, err
		}
		cmp.AddAnalysis("Trace", traces, analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Survival", analysis.NewSurvivalAnalyzerConstructor(), analysis.NewSurvivalComparatorConstructor(flags.SavePath, flags.ComparisonID))

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "ActorCritic",
		Environment: envConstructor,
		Policy:      actorCritic,
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "SoftmaxQ",
		Environment: envConstructor,
		Policy:      softmaxQ,
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "Random",
		Environment: envConstructor,
		Policy:      &policies.RandomPolicyConstructor{Seed: flags.Seed},
	})
	return cmp, nil
}
