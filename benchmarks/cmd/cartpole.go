package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/pole-balancing/analysis"
	"github.com/zeu5/pole-balancing/benchmarks/cartpole"
	"github.com/zeu5/pole-balancing/core"
)

// interruptContext is cancelled on interrupt or when done is closed
func interruptContext(done <-chan struct{}) context.Context {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-done:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx
}

func BalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance the pole with the actor-critic learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			doneCh := make(chan struct{})
			defer close(doneCh)
			ctx := interruptContext(doneCh)

			out := cmd.OutOrStdout()
			logFailures := func(t core.TickInfo) {
				if t.Failed {
					fmt.Fprintf(out, "Failure %d at step %d\n", t.Episode+1, t.Step+1)
				}
			}

			result, _, err := cartpole.Run(ctx, cartpole.ConfigFromFlags(flags), logFailures)
			if err != nil {
				return err
			}
			switch result.Outcome {
			case core.OutcomeExhausted:
				fmt.Fprintln(out, aurora.Red(fmt.Sprintf("Pole not balanced. Stopping after %d failures.", result.Failures)))
			case core.OutcomeSucceeded:
				fmt.Fprintln(out, aurora.Green(fmt.Sprintf("Pole balanced successfully for at least %d steps", result.Steps)))
			}
			return nil
		},
	}

	return cmd
}

func CompareCommand() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the actor-critic with the baselines over several seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			doneCh := make(chan struct{})
			defer close(doneCh)
			ctx := interruptContext(doneCh)

			cmp, err := cartpole.PrepareComparison(flags)
			if err != nil {
				return err
			}
			cfg := cartpole.ConfigFromFlags(flags)
			results, err := cmp.Run(ctx, flags.NumRuns, cfg.RunConfig(), flags.Parallelism)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, e := range cmp.Experiments {
				succeeded := 0
				runs := make([][]int, 0, len(results[e.Name]))
				for _, r := range results[e.Name] {
					if r == nil || r.IsError() {
						continue
					}
					if r.Succeeded() {
						succeeded++
					}
					runs = append(runs, r.EpisodeLengths)
				}
				trend := analysis.SurvivalTrend(runs, window)
				line := fmt.Sprintf(
					"%-12s balanced %d/%d, early mean %.1f, late mean %.1f, slope %.2f",
					e.Name, succeeded, len(runs), trend.EarlyMean, trend.LateMean, trend.Slope,
				)
				if trend.Improving() {
					fmt.Fprintln(out, aurora.Green(line))
				} else {
					fmt.Fprintln(out, aurora.Yellow(line))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&window, "window", 5, "Episodes averaged at each end of a run")

	return cmd
}
