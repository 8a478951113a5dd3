package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/zeu5/pole-balancing/util"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrCancelled     = errors.New("context cancelled")
)

// progressEvery is the number of ticks between two progress updates
const progressEvery = 1000

type Outcome int

const (
	// OutcomeSucceeded: the step budget was reached without exhausting the failure budget
	OutcomeSucceeded Outcome = iota
	// OutcomeExhausted: the failure budget was reached
	OutcomeExhausted
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "cancelled"
	}
}

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	output *util.ParallelOutput

	*RunConfig
}

type ExperimentResult struct {
	Outcome Outcome
	// Steps of the final episode, equal to the step budget on success
	Steps    int
	Failures int

	TotalTicks int
	// EpisodeLengths holds the ticks of every episode, the failing tick included
	EpisodeLengths []int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

func (r *ExperimentResult) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}

// Run drives the policy against the environment until the step budget or the
// failure budget is reached. Learned state is kept across failures; only the
// environment is reset.
func (e *Experiment) Run(ctx context.Context, rConfig *RunConfig) (*ExperimentResult, error) {
	if err := rConfig.Validate(); err != nil {
		return nil, err
	}
	result := e.run(&experimentRunContext{
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		RunConfig: rConfig,
	})
	return result, result.Error
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		EpisodeLengths: make([]int, 0),
		Datasets:       make(map[string]DataSet),
	}
	e.Policy.Reset()

	state, err := e.Environment.Reset()
	if err != nil {
		result.Error = fmt.Errorf("resetting environment: %w", err)
		return result
	}
	eCtx := e.newEpisode(ctx, 0, 0)

	steps := 0
	for tick := 0; ; tick++ {
		select {
		case <-ctx.ctx.Done():
			result.Outcome = OutcomeCancelled
			result.Error = ErrCancelled
		default:
		}
		if result.Error != nil {
			break
		}

		sCtx := &StepContext{Step: steps, Tick: tick, EpisodeContext: eCtx}
		action := e.Policy.PickAction(sCtx, state)
		e.Policy.RecordAction(sCtx, state, action)
		nextState, err := e.Environment.Step(action, sCtx)
		if err != nil {
			result.Error = fmt.Errorf("tick %d: %w", tick, err)
			break
		}
		e.Policy.UpdateStep(sCtx, state, action, nextState)

		failed := Failed(nextState)
		eCtx.Trace.AddStep(Step{
			Region:     state.Region(),
			Action:     action,
			NextRegion: nextState.Region(),
			Failed:     failed,
		})
		result.TotalTicks++
		for _, hook := range ctx.Hooks {
			hook(TickInfo{
				Run:        ctx.run,
				Tick:       tick,
				Episode:    eCtx.Episode,
				Step:       steps,
				Region:     state.Region(),
				Action:     action,
				NextRegion: nextState.Region(),
				Failed:     failed,
			})
		}
		if ctx.output != nil && tick%progressEvery == 0 {
			ctx.output.TrySet(fmt.Sprintf(
				"Run %d, Ticks: %d, Failures: %d/%d, Steps: %d/%d",
				ctx.run, tick, result.Failures, ctx.FailureBudget, steps, ctx.StepBudget,
			))
		}

		if failed {
			result.Failures++
			e.finishEpisode(ctx, eCtx, result)
			if result.Failures >= ctx.FailureBudget {
				result.Outcome = OutcomeExhausted
				result.Steps = 0
				break
			}
			steps = 0
			state, err = e.Environment.Reset()
			if err != nil {
				result.Error = fmt.Errorf("resetting environment after failure %d: %w", result.Failures, err)
				break
			}
			eCtx = e.newEpisode(ctx, result.Failures, tick+1)
			continue
		}

		steps++
		state = nextState
		if steps >= ctx.StepBudget {
			result.Outcome = OutcomeSucceeded
			result.Steps = steps
			e.finishEpisode(ctx, eCtx, result)
			break
		}
	}

	if ctx.output != nil {
		ctx.output.Set(fmt.Sprintf(
			"Run %d, Ticks: %d, Failures: %d/%d, Outcome: %s",
			ctx.run, result.TotalTicks, result.Failures, ctx.FailureBudget, result.Outcome,
		))
	}
	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

func (e *Experiment) newEpisode(ctx *experimentRunContext, episode, startTick int) *EpisodeContext {
	eCtx := NewEpisodeContext(ctx.ctx)
	eCtx.Run = ctx.run
	eCtx.Episode = episode
	eCtx.StartTick = startTick
	e.Policy.ResetEpisode(eCtx)
	return eCtx
}

func (e *Experiment) finishEpisode(ctx *experimentRunContext, eCtx *EpisodeContext, result *ExperimentResult) {
	e.Policy.UpdateEpisode(eCtx)
	result.EpisodeLengths = append(result.EpisodeLengths, eCtx.Trace.Len())
	for _, a := range ctx.analyzers {
		a.Analyze(eCtx, eCtx.Trace)
	}
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	output     *util.ParallelOutput
	rConfig    *RunConfig
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, work)
		}
	}
}

// Run an experiment by constructing the experiment context, *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		output:    work.output,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, work.runNumber)
	}

	// Construct the experiment
	exp := &Experiment{
		Name:        work.experiment.Name,
		Environment: work.experiment.Environment.NewEnvironment(w.id),
		Policy:      work.experiment.Policy.NewPolicy(work.runNumber),
	}

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         exp.run(eCtx),
	}
}

// Run executes every experiment for the given number of runs on a pool of
// workers and returns the results per experiment, indexed by run. Runs are
// independent: each gets its own environment and policy.
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) (map[string][]*ExperimentResult, error) {
	if err := rConfig.Validate(); err != nil {
		return nil, err
	}
	if runs <= 0 {
		return nil, fmt.Errorf("%w: number of runs must be positive, got %d", ErrInvalidConfig, runs)
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	printer := util.NewTerminalPrinter(c.ProgressRefresh, c.Output)
	works := make([]*parallelWork, 0, runs*len(c.Experiments))
	for run := 0; run < runs; run++ {
		for _, e := range c.Experiments {
			output := printer.NewOutput()
			output.Set(fmt.Sprintf("Experiment: %s, Run %d, waiting", e.Name, run))
			works = append(works, &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				output:     output,
				rConfig:    rConfig,
			})
		}
	}
	printer.Start(ctx)
	defer printer.Stop()

	workCh := make(chan *parallelWork, parallelism)
	resultsCh := make(chan *parallelResult, parallelism)

	wg := new(sync.WaitGroup)
	for i := 0; i < parallelism; i++ {
		w := &parallelWorker{id: i}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, workCh, resultsCh)
		}()
	}

	results := make(map[string][]*ExperimentResult)
	for _, e := range c.Experiments {
		results[e.Name] = make([]*ExperimentResult, runs)
	}
	gatherDone := make(chan struct{})
	go func() {
		defer close(gatherDone)
		for result := range resultsCh {
			results[result.experimentName][result.run] = result.result
		}
	}()

SendLoop:
	for _, work := range works {
		select {
		case <-ctx.Done():
			break SendLoop
		case workCh <- work:
		}
	}
	close(workCh)
	wg.Wait()
	close(resultsCh)
	<-gatherDone

	if ctx.Err() != nil {
		return results, ErrCancelled
	}

	// Gather datasets to run comparisons
	experimentNames := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		experimentNames[i] = e.Name
	}
	for run := 0; run < runs; run++ {
		for name, cc := range c.Comparators {
			datasets := make([]DataSet, len(c.Experiments))
			for i, e := range c.Experiments {
				result := results[e.Name][run]
				if result == nil || result.IsError() {
					continue
				}
				datasets[i] = result.Datasets[name]
			}
			cc.NewComparator(run).Compare(experimentNames, datasets)
		}
	}
	return results, nil
}
