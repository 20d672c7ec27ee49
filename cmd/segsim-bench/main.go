// Package main provides segsim-bench, which explores how the near-miss
// window and the weighting policy move boundary similarity on a corpus.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-segsim/internal/bench"
	"github.com/jamesainslie/go-segsim/weight"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type corpusFlags struct {
	prediction string
	reference  string
	strict     bool
	wp         float64
	wr         float64
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.prediction, "prediction", "p", "testdata/clinais/sample.json", "Prediction dataset")
	cmd.Flags().StringVarP(&f.reference, "reference", "r", "", "Reference dataset (default: prediction file)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Count near misses as detection errors")
	cmd.Flags().Float64Var(&f.wp, "wp", 1.0, "Precision weight")
	cmd.Flags().Float64Var(&f.wr, "wr", 1.0, "Recall weight")
}

func (f *corpusFlags) config() bench.Config {
	return bench.Config{
		NearMisses:      !f.strict,
		PrecisionWeight: f.wp,
		RecallWeight:    f.wr,
	}
}

func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "segsim-bench",
		Short:         "Window sweeps and policy comparisons for boundary similarity",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(buildSweepCmd(), buildCompareCmd())
	return rootCmd
}

func buildSweepCmd() *cobra.Command {
	var (
		flags          corpusFlags
		policy         string
		min, max, step int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Score the corpus over a range of windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, flags, policy, min, max, step)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&policy, "policy", "saturating", "Weighting policy ("+strings.Join(weight.Policies(), ", ")+")")
	cmd.Flags().IntVar(&min, "min", 0, "Smallest window")
	cmd.Flags().IntVar(&max, "max", 40, "Largest window")
	cmd.Flags().IntVar(&step, "step", 5, "Window step")
	return cmd
}

func buildCompareCmd() *cobra.Command {
	var (
		flags    corpusFlags
		policies string
		window   int
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score the corpus under each weighting policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, flags, strings.Split(policies, ","), window)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&policies, "policies", strings.Join(weight.Policies(), ","), "Comma-separated policies")
	cmd.Flags().IntVar(&window, "window", 40, "Near-miss window")
	return cmd
}

func runSweep(cmd *cobra.Command, flags corpusFlags, policy string, min, max, step int) error {
	weights, err := weight.ByName(policy)
	if err != nil {
		return err
	}
	corpus, err := bench.LoadCorpus(flags.prediction, flags.reference)
	if err != nil {
		return err
	}
	windows := bench.SweepWindows(min, max, step)
	if len(windows) == 0 {
		return fmt.Errorf("empty window range %d..%d step %d", min, max, step)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %d documents from %s\n\n", corpus.Len(), flags.prediction)

	results, err := bench.Sweep(cmd.Context(), corpus, weights, flags.config(), windows)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Window Sweep Results (policy=%s, wp=%.1f, wr=%.1f)\n", weights.Name, flags.wp, flags.wr)
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "%-8s %-8s %-8s %-8s %-8s\n", "Window", "B2", "Prec", "Rec", "F1")

	// Print sorted by window for readability
	for _, w := range windows {
		for _, r := range results {
			if r.Window == w {
				fmt.Fprintf(out, "%-8d %-8.4f %-8.2f %-8.2f %-8.2f\n",
					r.Window, r.Float64(), r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1)
				break
			}
		}
	}

	fmt.Fprintln(out, strings.Repeat("-", 50))
	best := results[0]
	fmt.Fprintf(out, "Best: window %d (B2: %.4f)\n", best.Window, best.Float64())
	return nil
}

func runCompare(cmd *cobra.Command, flags corpusFlags, policies []string, window int) error {
	corpus, err := bench.LoadCorpus(flags.prediction, flags.reference)
	if err != nil {
		return err
	}

	results, err := bench.ComparePolicies(cmd.Context(), corpus, policies, window, flags.config())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Policy Comparison (window=%d)\n", window)
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "%-12s %-10s %-8s %-8s\n", "Policy", "B2", "F1", "Weighted")
	for _, r := range results {
		fmt.Fprintf(out, "%-12s %-10.4f %-8.2f %-8.2f\n", r.Policy, r.Float64(), r.Metrics.F1, r.Metrics.WeightedScore)
	}
	return nil
}
