package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/pole-balancing/benchmarks/common"
)

var (
	flags    *common.Flags = common.DefaultFlags()
	savePath string

	actorLearningRate  float64
	criticLearningRate float64
	discount           float64
	actorTraceDecay    float64
	criticTraceDecay   float64
	failurePenalty     float64

	qAlpha       float64
	qTemperature float64

	numRuns       int
	stepBudget    int
	failureBudget int
	seed          uint64
	parallelism   int
	debug         bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")

	cmd.PersistentFlags().Float64Var(&actorLearningRate, "actor-rate", flags.ActorLearningRate, "Actor learning rate")
	cmd.PersistentFlags().Float64Var(&criticLearningRate, "critic-rate", flags.CriticLearningRate, "Critic learning rate")
	cmd.PersistentFlags().Float64Var(&discount, "discount", flags.Discount, "Discount factor")
	cmd.PersistentFlags().Float64Var(&actorTraceDecay, "actor-decay", flags.ActorTraceDecay, "Actor eligibility trace decay")
	cmd.PersistentFlags().Float64Var(&criticTraceDecay, "critic-decay", flags.CriticTraceDecay, "Critic eligibility trace decay")
	cmd.PersistentFlags().Float64Var(&failurePenalty, "failure-penalty", flags.FailurePenalty, "Reinforcement on failure")

	cmd.PersistentFlags().Float64Var(&qAlpha, "q-alpha", flags.QAlpha, "Learning rate of the Q-learning baseline")
	cmd.PersistentFlags().Float64Var(&qTemperature, "q-temperature", flags.QTemperature, "Softmax temperature of the Q-learning baseline")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&stepBudget, "steps", flags.StepBudget, "Steps without failure needed to succeed")
	cmd.PersistentFlags().IntVar(&failureBudget, "failures", flags.FailureBudget, "Failures allowed before giving up")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Seed of the first run")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")
	cmd.PersistentFlags().BoolVar(&debug, "debug", flags.Debug, "Record the traces of the last episodes")
}

func UpdateFlags() {
	flags.SavePath = savePath

	flags.ActorLearningRate = actorLearningRate
	flags.CriticLearningRate = criticLearningRate
	flags.Discount = discount
	flags.ActorTraceDecay = actorTraceDecay
	flags.CriticTraceDecay = criticTraceDecay
	flags.FailurePenalty = failurePenalty

	flags.QAlpha = qAlpha
	flags.QTemperature = qTemperature

	flags.NumRuns = numRuns
	flags.StepBudget = stepBudget
	flags.FailureBudget = failureBudget
	flags.Seed = seed
	flags.Parallelism = parallelism
	flags.Debug = debug
}
