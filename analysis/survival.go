package analysis

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/pole-balancing/core"
	"github.com/zeu5/pole-balancing/util"
	"gonum.org/v1/gonum/stat"
)

// SurvivalDataset lists how long every episode of a run lasted.
type SurvivalDataset struct {
	EpisodeLengths []int `json:"episode_lengths"`
	// Balanced is set when the last episode ended without failure
	Balanced bool `json:"balanced"`
}

func (s *SurvivalDataset) Copy() *SurvivalDataset {
	return &SurvivalDataset{
		EpisodeLengths: util.CopyIntSlice(s.EpisodeLengths),
		Balanced:       s.Balanced,
	}
}

type SurvivalAnalyzer struct {
	dataset *SurvivalDataset
}

var _ core.Analyzer = &SurvivalAnalyzer{}

func NewSurvivalAnalyzer() *SurvivalAnalyzer {
	return &SurvivalAnalyzer{
		dataset: &SurvivalDataset{
			EpisodeLengths: make([]int, 0),
		},
	}
}

func (s *SurvivalAnalyzer) Analyze(_ *core.EpisodeContext, trace *core.Trace) {
	s.dataset.EpisodeLengths = append(s.dataset.EpisodeLengths, trace.Len())
	s.dataset.Balanced = !trace.EndedInFailure()
}

func (s *SurvivalAnalyzer) DataSet() core.DataSet {
	return s.dataset.Copy()
}

func (s *SurvivalAnalyzer) Reset() {
	s.dataset = &SurvivalDataset{
		EpisodeLengths: make([]int, 0),
	}
}

type SurvivalAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &SurvivalAnalyzerConstructor{}

func NewSurvivalAnalyzerConstructor() *SurvivalAnalyzerConstructor {
	return &SurvivalAnalyzerConstructor{}
}

func (c *SurvivalAnalyzerConstructor) NewAnalyzer(_ string, _ int) core.Analyzer {
	return NewSurvivalAnalyzer()
}

type survivalRecord struct {
	ComparisonID string                      `json:"comparison_id"`
	Run          int                         `json:"run"`
	Experiments  map[string]*SurvivalDataset `json:"experiments"`
}

// SurvivalComparator saves the survival datasets of one run as JSON.
type SurvivalComparator struct {
	savePath     string
	comparisonID string
	run          int
}

var _ core.Comparator = &SurvivalComparator{}

func NewSurvivalComparator(savePath, comparisonID string, run int) *SurvivalComparator {
	return &SurvivalComparator{
		savePath:     path.Join(savePath, "survival.json"),
		comparisonID: comparisonID,
		run:          run,
	}
}

func (c *SurvivalComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := survivalRecord{
		ComparisonID: c.comparisonID,
		Run:          c.run,
		Experiments:  make(map[string]*SurvivalDataset),
	}
	for i, name := range experimentNames {
		ds, ok := datasets[i].(*SurvivalDataset)
		if !ok {
			continue
		}
		out.Experiments[name] = ds
	}

	if err := util.SaveJson(c.savePath, out); err != nil {
		fmt.Fprintf(os.Stderr, "error saving survival dataset: %s\n", err)
	}
}

type SurvivalComparatorConstructor struct {
	savePath     string
	comparisonID string
}

var _ core.ComparatorConstructor = &SurvivalComparatorConstructor{}

func NewSurvivalComparatorConstructor(savePath, comparisonID string) *SurvivalComparatorConstructor {
	return &SurvivalComparatorConstructor{
		savePath:     savePath,
		comparisonID: comparisonID,
	}
}

func (c *SurvivalComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewSurvivalComparator(path.Join(c.savePath, strconv.Itoa(run)), c.comparisonID, run)
}

// Trend summarizes how episode lengths evolve with the number of failures
// across independent runs.
type Trend struct {
	// MeanByEpisode[i] is the mean length of episode i over the runs that
	// reached it, Counts[i] the number of such runs
	MeanByEpisode []float64
	Counts        []int

	// Least squares fit of MeanByEpisode weighted by Counts
	Intercept float64
	Slope     float64

	// Mean over runs of the first and of the last `window` episodes
	EarlyMean float64
	LateMean  float64
}

// Improving reports whether late episodes last longer than early ones.
func (t Trend) Improving() bool {
	return t.LateMean > t.EarlyMean
}

// SurvivalTrend aggregates the episode lengths of several runs. window is the
// number of episodes averaged at each end of a run.
func SurvivalTrend(runs [][]int, window int) Trend {
	if window <= 0 {
		window = 1
	}
	longest := 0
	for _, lengths := range runs {
		if len(lengths) > longest {
			longest = len(lengths)
		}
	}

	trend := Trend{
		MeanByEpisode: make([]float64, longest),
		Counts:        make([]int, longest),
	}
	for _, lengths := range runs {
		for i, l := range lengths {
			trend.MeanByEpisode[i] += float64(l)
			trend.Counts[i]++
		}
	}
	xs := make([]float64, longest)
	weights := make([]float64, longest)
	for i := range trend.MeanByEpisode {
		trend.MeanByEpisode[i] /= float64(trend.Counts[i])
		xs[i] = float64(i)
		weights[i] = float64(trend.Counts[i])
	}
	if longest > 1 {
		trend.Intercept, trend.Slope = stat.LinearRegression(xs, trend.MeanByEpisode, weights, false)
	}

	early := make([]float64, 0, len(runs))
	late := make([]float64, 0, len(runs))
	for _, lengths := range runs {
		if len(lengths) == 0 {
			continue
		}
		n := min(window, len(lengths))
		early = append(early, meanInts(lengths[:n]))
		late = append(late, meanInts(lengths[len(lengths)-n:]))
	}
	if len(early) > 0 {
		trend.EarlyMean = stat.Mean(early, nil)
		trend.LateMean = stat.Mean(late, nil)
	}
	return trend
}

func meanInts(xs []int) float64 {
	fs := make([]float64, len(xs))
	for i, x := range xs {
		fs[i] = float64(x)
	}
	return stat.Mean(fs, nil)
}
