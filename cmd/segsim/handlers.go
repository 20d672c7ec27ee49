package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/internal/bench"
	"github.com/jamesainslie/go-segsim/internal/config"
	"github.com/jamesainslie/go-segsim/internal/metrics"
	"github.com/jamesainslie/go-segsim/internal/report"
	"github.com/jamesainslie/go-segsim/internal/store"
)

// resolveConfig layers explicitly set flags over the configuration file.
func resolveConfig(cmd *cobra.Command, opts evaluateOptions) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("window") {
		cfg.Window = opts.window
	}
	if flags.Changed("policy") {
		cfg.Policy = opts.policy
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("precision") {
		cfg.Precision = opts.precision
	}
	if flags.Changed("store") {
		cfg.Store = opts.store
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics = opts.metrics
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runEvaluate(cmd *cobra.Command, opts evaluateOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	corpus, err := bench.LoadCorpus(opts.prediction, opts.reference)
	if err != nil {
		return err
	}
	logger.Info("loaded corpus",
		"documents", corpus.Len(),
		"prediction", opts.prediction,
		"prediction_digest", corpus.PredictionDigest,
	)

	evalOpts, err := cfg.Options()
	if err != nil {
		return err
	}
	evalOpts = append(evalOpts, segsim.WithLogger(logger))

	var m *metrics.Metrics
	if cfg.Metrics != "" {
		m = metrics.New()
		evalOpts = append(evalOpts, segsim.WithObserver(m))
	}

	ev, err := segsim.New(evalOpts...)
	if err != nil {
		return err
	}
	result, err := ev.EvaluateCorpus(ctx, corpus.References, corpus.Hypotheses)
	if err != nil {
		return err
	}

	rep := report.Build(result, ev.Universe().Strings(), cfg.Precision)
	out := cmd.OutOrStdout()
	printSummary(out, result, rep)

	if opts.output != "" {
		path, err := report.Write(opts.output, rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Report: %s\n", path)
	}
	if opts.addScores {
		path, err := report.WriteEvaluated(corpus.Predictions, rep)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Scored predictions: %s\n", path)
	}

	if cfg.Store != "" {
		if err := saveRun(cmd, cfg.Store, result, corpus); err != nil {
			return err
		}
	}
	if m != nil {
		if err := m.WriteTextfile(cfg.Metrics); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("wrote metrics", "path", cfg.Metrics)
	}
	return nil
}

func saveRun(cmd *cobra.Command, path string, result *segsim.CorpusResult, corpus *bench.Corpus) (err error) {
	s, err := store.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	run, err := s.SaveRun(cmd.Context(), result, store.Digests{
		Reference:  corpus.ReferenceDigest,
		Prediction: corpus.PredictionDigest,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run: %s\n", run.ID)
	return nil
}

func printSummary(w io.Writer, result *segsim.CorpusResult, rep *report.Report) {
	fmt.Fprintf(w, "Boundary Similarity (policy=%s, window=%d)\n", result.Policy, result.Window)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "%-20s %-14s %-6s %-6s %-6s %-6s %-6s\n", "Document", "B2", "Match", "Add", "Del", "Sub", "Trans")
	for _, id := range result.IDs() {
		st := result.Documents[id].Statistics
		fmt.Fprintf(w, "%-20s %-14s %-6d %-6d %-6d %-6d %-6d\n",
			id, rep.ScoresPerFile[id].B2,
			len(st.Matches), len(st.Additions), len(st.Deletions), len(st.Substitutions), len(st.Transpositions))
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintf(w, "Weighted B2: %s (%d reference boundaries)\n", rep.WeightedB2, result.ReferenceBoundaries)
}

func runHistory(cmd *cobra.Command, path string, limit int) (err error) {
	s, err := store.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	fmt.Fprintf(out, "%-36s %-20s %-11s %-6s %-5s %s\n", "Run", "Created", "Policy", "Window", "Docs", "B2")
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s %-20s %-11s %-6d %-5d %.4f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Policy, r.Window, r.Documents, r.Float64())
	}
	return nil
}

func runShowRun(cmd *cobra.Command, path, id string) (err error) {
	s, err := store.Open(cmd.Context(), path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()

	run, docs, err := s.Run(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (policy=%s, window=%d)\n", run.ID, run.Policy, run.Window)
	fmt.Fprintf(out, "Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.PredictionDigest != "" {
		fmt.Fprintf(out, "Prediction digest: %s\n", run.PredictionDigest)
	}
	if run.ReferenceDigest != "" {
		fmt.Fprintf(out, "Reference digest:  %s\n", run.ReferenceDigest)
	}
	fmt.Fprintln(out, strings.Repeat("-", 72))
	for _, d := range docs {
		fmt.Fprintf(out, "%-20s %-14s %-6d %-6d %-6d %-6d %-6d\n",
			d.DocumentID, d.Similarity.FloatString(4),
			d.Matches, d.Additions, d.Deletions, d.Substitutions, d.Transpositions)
	}
	fmt.Fprintln(out, strings.Repeat("-", 72))
	fmt.Fprintf(out, "Weighted B2: %s (%d reference boundaries)\n", run.Similarity.FloatString(4), run.ReferenceBoundaries)
	return nil
}
