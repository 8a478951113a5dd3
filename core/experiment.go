package core

import (
	"fmt"
	"io"
	"time"
)

type ParallelExperiment struct {
	Name        string
	Environment EnvironmentConstructor
	Policy      PolicyConstructor
}

type DataSet interface{}

type Analyzer interface {
	// Analyze is called once for every finished episode
	Analyze(*EpisodeContext, *Trace)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet)
}

type ComparatorConstructor interface {
	NewComparator(int) Comparator
}

type ParallelComparison struct {
	Experiments []*ParallelExperiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]ComparatorConstructor

	// Output receives the live progress lines, stdout when nil
	Output          io.Writer
	ProgressRefresh time.Duration
}

// TickInfo is reported to the hooks after every tick.
type TickInfo struct {
	Run        int
	Tick       int
	Episode    int
	Step       int
	Region     int
	Action     Action
	NextRegion int
	Failed     bool
}

type TickHook func(TickInfo)

type RunConfig struct {
	// StepBudget is the number of consecutive ticks without failure that
	// ends the run successfully
	StepBudget int
	// FailureBudget is the number of failures that exhausts the run
	FailureBudget int

	Hooks []TickHook
}

func (c *RunConfig) Validate() error {
	if c.StepBudget <= 0 {
		return fmt.Errorf("%w: step budget must be positive, got %d", ErrInvalidConfig, c.StepBudget)
	}
	if c.FailureBudget <= 0 {
		return fmt.Errorf("%w: failure budget must be positive, got %d", ErrInvalidConfig, c.FailureBudget)
	}
	return nil
}

func NewParallelComparison() *ParallelComparison {
	return &ParallelComparison{
		Analyzers:       make(map[string]AnalyzerConstructor),
		Comparators:     make(map[string]ComparatorConstructor),
		Experiments:     make([]*ParallelExperiment, 0),
		ProgressRefresh: 200 * time.Millisecond,
	}
}

func (c *ParallelComparison) AddExperiment(e *ParallelExperiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *ParallelComparison) AddAnalysis(name string, a AnalyzerConstructor, cmp ComparatorConstructor) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}

type Experiment struct {
	Name        string
	Environment Environment
	Policy      Policy
}
