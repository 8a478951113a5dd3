package core

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"testing"
	"time"
)

type testState int

func (s testState) Region() int {
	return int(s)
}

// scriptedEnv fails episode i on its lengths[i]-th tick. Episodes past the
// script never fail.
type scriptedEnv struct {
	lengths []int
	episode int
	step    int
	calls   *[]string
}

func (e *scriptedEnv) Reset() (State, error) {
	e.step = 0
	e.log("reset")
	return testState(0), nil
}

func (e *scriptedEnv) Step(_ Action, _ *StepContext) (State, error) {
	e.step++
	e.log("step")
	if e.episode < len(e.lengths) && e.step == e.lengths[e.episode] {
		e.episode++
		return testState(FailedRegion), nil
	}
	return testState(e.step % 3), nil
}

func (e *scriptedEnv) log(call string) {
	if e.calls != nil {
		*e.calls = append(*e.calls, call)
	}
}

type countingPolicy struct {
	calls    *[]string
	episodes int
	resets   int
}

func (p *countingPolicy) log(call string) {
	if p.calls != nil {
		*p.calls = append(*p.calls, call)
	}
}

func (p *countingPolicy) ResetEpisode(_ *EpisodeContext) {}

func (p *countingPolicy) UpdateEpisode(_ *EpisodeContext) { p.episodes++ }

func (p *countingPolicy) PickAction(sCtx *StepContext, _ State) Action {
	p.log("pick")
	return Action(sCtx.Tick % 2)
}

func (p *countingPolicy) RecordAction(_ *StepContext, _ State, _ Action) { p.log("record") }

func (p *countingPolicy) UpdateStep(_ *StepContext, _ State, _ Action, _ State) { p.log("update") }

func (p *countingPolicy) Reset() { p.resets++ }

func runScripted(t *testing.T, lengths []int, cfg *RunConfig) (*ExperimentResult, *countingPolicy) {
	t.Helper()
	policy := &countingPolicy{}
	exp := &Experiment{
		Name:        "scripted",
		Environment: &scriptedEnv{lengths: lengths},
		Policy:      policy,
	}
	result, err := exp.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	return result, policy
}

func TestRunSucceeds(t *testing.T) {
	result, policy := runScripted(t, nil, &RunConfig{StepBudget: 10, FailureBudget: 3})

	if !result.Succeeded() {
		t.Fatalf("outcome %s", result.Outcome)
	}
	if result.Steps != 10 || result.Failures != 0 || result.TotalTicks != 10 {
		t.Errorf("steps %d, failures %d, ticks %d", result.Steps, result.Failures, result.TotalTicks)
	}
	if !slices.Equal(result.EpisodeLengths, []int{10}) {
		t.Errorf("episode lengths %v", result.EpisodeLengths)
	}
	if policy.resets != 1 || policy.episodes != 1 {
		t.Errorf("policy reset %d times, %d episodes closed", policy.resets, policy.episodes)
	}
}

func TestRunExhausts(t *testing.T) {
	result, _ := runScripted(t, []int{3, 3, 3, 3, 3}, &RunConfig{StepBudget: 10, FailureBudget: 4})

	if result.Outcome != OutcomeExhausted {
		t.Fatalf("outcome %s", result.Outcome)
	}
	if result.Failures != 4 || result.TotalTicks != 12 || result.Steps != 0 {
		t.Errorf("failures %d, ticks %d, steps %d", result.Failures, result.TotalTicks, result.Steps)
	}
	if !slices.Equal(result.EpisodeLengths, []int{3, 3, 3, 3}) {
		t.Errorf("episode lengths %v", result.EpisodeLengths)
	}
}

func TestStepsRestartAfterFailure(t *testing.T) {
	result, _ := runScripted(t, []int{4, 2}, &RunConfig{StepBudget: 5, FailureBudget: 3})

	if !result.Succeeded() {
		t.Fatalf("outcome %s", result.Outcome)
	}
	if result.Failures != 2 || result.TotalTicks != 11 {
		t.Errorf("failures %d, ticks %d", result.Failures, result.TotalTicks)
	}
	if !slices.Equal(result.EpisodeLengths, []int{4, 2, 5}) {
		t.Errorf("episode lengths %v", result.EpisodeLengths)
	}
}

func TestLastTickDecidesBetweenBudgets(t *testing.T) {
	// the only failure allowed lands on the tick that would reach the step budget
	result, _ := runScripted(t, []int{5}, &RunConfig{StepBudget: 5, FailureBudget: 1})
	if result.Outcome != OutcomeExhausted || result.Failures != 1 {
		t.Fatalf("outcome %s after %d failures", result.Outcome, result.Failures)
	}

	result, _ = runScripted(t, []int{6}, &RunConfig{StepBudget: 5, FailureBudget: 1})
	if result.Outcome != OutcomeSucceeded || result.Failures != 0 {
		t.Fatalf("outcome %s after %d failures", result.Outcome, result.Failures)
	}
}

func TestTickOrderAndHooks(t *testing.T) {
	calls := make([]string, 0)
	infos := make([]TickInfo, 0)
	exp := &Experiment{
		Name:        "scripted",
		Environment: &scriptedEnv{lengths: []int{2}, calls: &calls},
		Policy:      &countingPolicy{calls: &calls},
	}
	cfg := &RunConfig{
		StepBudget:    2,
		FailureBudget: 5,
		Hooks: []TickHook{func(info TickInfo) {
			calls = append(calls, "hook")
			infos = append(infos, info)
		}},
	}
	if _, err := exp.Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %s", err)
	}

	tick := []string{"pick", "record", "step", "update", "hook"}
	want := []string{"reset"}
	want = append(want, tick...)
	want = append(want, tick...)
	want = append(want, "reset")
	want = append(want, tick...)
	want = append(want, tick...)
	if !slices.Equal(calls, want) {
		t.Fatalf("calls\n%v\nwant\n%v", calls, want)
	}

	wantInfos := []TickInfo{
		{Tick: 0, Episode: 0, Step: 0, Region: 0, Action: PushNegative, NextRegion: 1},
		{Tick: 1, Episode: 0, Step: 1, Region: 1, Action: PushPositive, NextRegion: FailedRegion, Failed: true},
		{Tick: 2, Episode: 1, Step: 0, Region: 0, Action: PushNegative, NextRegion: 1},
		{Tick: 3, Episode: 1, Step: 1, Region: 1, Action: PushPositive, NextRegion: 2},
	}
	if !slices.Equal(infos, wantInfos) {
		t.Fatalf("infos\n%+v\nwant\n%+v", infos, wantInfos)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exp := &Experiment{Environment: &scriptedEnv{}, Policy: &countingPolicy{}}

	result, err := exp.Run(ctx, &RunConfig{StepBudget: 10, FailureBudget: 1})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v, want ErrCancelled", err)
	}
	if result.Outcome != OutcomeCancelled || result.TotalTicks != 0 {
		t.Errorf("outcome %s after %d ticks", result.Outcome, result.TotalTicks)
	}
}

func TestRunConfigValidate(t *testing.T) {
	for _, cfg := range []*RunConfig{
		{StepBudget: 0, FailureBudget: 1},
		{StepBudget: 1, FailureBudget: 0},
		{StepBudget: -5, FailureBudget: -5},
	} {
		exp := &Experiment{Environment: &scriptedEnv{}, Policy: &countingPolicy{}}
		if _, err := exp.Run(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%+v: got %v", cfg, err)
		}
	}
}

type lengthAnalyzer struct {
	lengths []int
}

func (a *lengthAnalyzer) Analyze(_ *EpisodeContext, trace *Trace) {
	a.lengths = append(a.lengths, trace.Len())
}

func (a *lengthAnalyzer) DataSet() DataSet { return a.lengths }

func (a *lengthAnalyzer) Reset() { a.lengths = nil }

type lengthAnalyzerConstructor struct{}

func (lengthAnalyzerConstructor) NewAnalyzer(_ string, _ int) Analyzer { return &lengthAnalyzer{} }

type recordingComparator struct {
	mu    *sync.Mutex
	calls map[int][]DataSet
	run   int
}

func (c *recordingComparator) Compare(names []string, datasets []DataSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[c.run] = datasets
}

type recordingComparatorConstructor struct {
	mu    *sync.Mutex
	calls map[int][]DataSet
}

func (c *recordingComparatorConstructor) NewComparator(run int) Comparator {
	return &recordingComparator{mu: c.mu, calls: c.calls, run: run}
}

type scriptedEnvConstructor struct {
	lengths []int
}

func (c scriptedEnvConstructor) NewEnvironment(_ int) Environment {
	return &scriptedEnv{lengths: c.lengths}
}

type countingPolicyConstructor struct{}

func (countingPolicyConstructor) NewPolicy(_ int) Policy { return &countingPolicy{} }

func TestParallelComparison(t *testing.T) {
	cmp := NewParallelComparison()
	cmp.Output = io.Discard
	cmp.ProgressRefresh = time.Millisecond
	cmp.AddExperiment(&ParallelExperiment{Name: "steady", Environment: scriptedEnvConstructor{}, Policy: countingPolicyConstructor{}})
	cmp.AddExperiment(&ParallelExperiment{Name: "shaky", Environment: scriptedEnvConstructor{lengths: []int{2, 3}}, Policy: countingPolicyConstructor{}})

	comparator := &recordingComparatorConstructor{mu: new(sync.Mutex), calls: make(map[int][]DataSet)}
	cmp.AddAnalysis("lengths", lengthAnalyzerConstructor{}, comparator)

	results, err := cmp.Run(context.Background(), 3, &RunConfig{StepBudget: 4, FailureBudget: 5}, 2)
	if err != nil {
		t.Fatalf("run: %s", err)
	}
	for _, name := range []string{"steady", "shaky"} {
		if len(results[name]) != 3 {
			t.Fatalf("%s: %d runs", name, len(results[name]))
		}
		for run, r := range results[name] {
			if r == nil || !r.Succeeded() {
				t.Fatalf("%s run %d: %+v", name, run, r)
			}
		}
	}
	if len(comparator.calls) != 3 {
		t.Fatalf("compared %d runs", len(comparator.calls))
	}
	for run, datasets := range comparator.calls {
		if !slices.Equal(datasets[0].([]int), []int{4}) || !slices.Equal(datasets[1].([]int), []int{2, 3, 4}) {
			t.Errorf("run %d datasets %v", run, datasets)
		}
	}
}

func TestParallelComparisonRejectsConfig(t *testing.T) {
	cmp := NewParallelComparison()
	cmp.Output = io.Discard
	if _, err := cmp.Run(context.Background(), 0, &RunConfig{StepBudget: 1, FailureBudget: 1}, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero runs: got %v", err)
	}
	if _, err := cmp.Run(context.Background(), 1, &RunConfig{}, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("empty budgets: got %v", err)
	}
}
