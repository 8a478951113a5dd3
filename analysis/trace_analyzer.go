package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/zeu5/pole-balancing/core"
)

// TraceAnalyzer writes every episode past a threshold to a text file, one
// tick per line.
type TraceAnalyzer struct {
	// savePath is the path to save the trace
	savePath string
	exp      string
	// will save the trace to the file only after the episode number exceeds this threshold
	thresholdEpisode int
}

var _ core.Analyzer = &TraceAnalyzer{}

// NewTraceAnalyzer creates the traces directory under savePath if needed.
func NewTraceAnalyzer(savePath string, threshold int) (*TraceAnalyzer, error) {
	tracesPath := path.Join(savePath, "traces")
	if err := os.MkdirAll(tracesPath, 0755); err != nil {
		return nil, fmt.Errorf("creating traces directory: %w", err)
	}
	return &TraceAnalyzer{
		savePath:         tracesPath,
		thresholdEpisode: threshold,
	}, nil
}

func (a *TraceAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	if ctx.Episode < a.thresholdEpisode {
		return
	}
	buf := new(bytes.Buffer)
	for i := 0; i < trace.Len(); i++ {
		buf.WriteString(stepToString(ctx.StartTick+i, trace.Step(i)))
		buf.WriteString("\n")
	}

	fileName := fmt.Sprintf("%d_trace_%d.txt", ctx.Run, ctx.Episode)
	if a.exp != "" {
		fileName = fmt.Sprintf("%d_%s_trace_%d.txt", ctx.Run, a.exp, ctx.Episode)
	}
	file := path.Join(a.savePath, fileName)
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing trace %s: %s\n", file, err)
	}
}

func stepToString(tick int, step core.Step) string {
	next := fmt.Sprintf("%d", step.NextRegion)
	if step.Failed {
		next = "failed"
	}
	return fmt.Sprintf("%d: box=%d action=%s next=%s", tick, step.Region, step.Action, next)
}

func (a *TraceAnalyzer) DataSet() core.DataSet {
	return nil
}

func (a *TraceAnalyzer) Reset() {
	// do nothing
}

type TraceAnalyzerConstructor struct {
	tracesPath       string
	thresholdEpisode int
}

var _ core.AnalyzerConstructor = &TraceAnalyzerConstructor{}

// NewTraceAnalyzerConstructor creates the traces directory once for every
// analyzer it builds.
func NewTraceAnalyzerConstructor(savePath string, thresholdEpisode int) (*TraceAnalyzerConstructor, error) {
	a, err := NewTraceAnalyzer(savePath, thresholdEpisode)
	if err != nil {
		return nil, err
	}
	return &TraceAnalyzerConstructor{
		tracesPath:       a.savePath,
		thresholdEpisode: thresholdEpisode,
	}, nil
}

func (c *TraceAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return &TraceAnalyzer{
		savePath:         c.tracesPath,
		exp:              exp,
		thresholdEpisode: c.thresholdEpisode,
	}
}

// NoOpComparator discards the datasets, for analyzers that only write files
type NoOpComparator struct{}

var _ core.Comparator = &NoOpComparator{}

func (n *NoOpComparator) Compare(_ []string, _ []core.DataSet) {}

type NoOpComparatorConstructor struct{}

var _ core.ComparatorConstructor = &NoOpComparatorConstructor{}

func NewNoOpComparatorConstructor() *NoOpComparatorConstructor {
	return &NoOpComparatorConstructor{}
}

func (n *NoOpComparatorConstructor) NewComparator(_ int) core.Comparator {
	return &NoOpComparator{}
}
