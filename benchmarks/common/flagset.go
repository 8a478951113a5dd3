package common

import (
	"path"

	"github.com/google/uuid"
	"github.com/zeu5/pole-balancing/util"
)

type Flags struct {
	LearnerFlags
	BaselineFlags
	SavePath string
	RunFlags
	Parallelism int
	Debug       bool
	// ComparisonID tags everything recorded under SavePath by one invocation
	ComparisonID string
}

type LearnerFlags struct {
	ActorLearningRate  float64
	CriticLearningRate float64
	Discount           float64
	ActorTraceDecay    float64
	CriticTraceDecay   float64
	FailurePenalty     float64
}

// BaselineFlags configure the Q-learning baseline of the comparison
type BaselineFlags struct {
	QAlpha       float64
	QTemperature float64
}

type RunFlags struct {
	NumRuns       int
	StepBudget    int
	FailureBudget int
	Seed          uint64
}

func DefaultFlags() *Flags {
	return &Flags{
		LearnerFlags: LearnerFlags{
			ActorLearningRate:  1000,
			CriticLearningRate: 0.5,
			Discount:           0.95,
			ActorTraceDecay:    0.9,
			CriticTraceDecay:   0.8,
			FailurePenalty:     -1,
		},
		BaselineFlags: BaselineFlags{
			QAlpha:       0.3,
			QTemperature: 0.05,
		},
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:       1,
			StepBudget:    100000,
			FailureBudget: 100,
			Seed:          1,
		},
		Parallelism:  4,
		Debug:        false,
		ComparisonID: uuid.New().String(),
	}
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
