package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-segsim/weight"
)

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "segsim",
		Short: "Boundary similarity scoring for clinical note sectioning",
		Long: `segsim compares predicted section boundaries against gold annotations
and reports boundary similarity (B2), crediting near misses and
penalizing labeling errors.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")

	rootCmd.AddCommand(
		buildEvaluateCmd(),
		buildHistoryCmd(),
	)
	return rootCmd
}

type evaluateOptions struct {
	prediction string
	reference  string
	output     string
	addScores  bool
	configPath string
	window     int
	policy     string
	workers    int
	precision  int
	store      string
	metrics    string
}

func buildEvaluateCmd() *cobra.Command {
	var opts evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score predicted boundaries against gold boundaries",
		Long: `Score predicted boundaries against gold boundaries.

Without --reference the gold boundaries are read from the prediction file.
Flags override values from --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.prediction, "prediction", "p", "", "Prediction dataset (required)")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference dataset (default: prediction file)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the JSON report to this path")
	cmd.Flags().BoolVar(&opts.addScores, "add-scores-in-prediction-file", false, "Write <prediction>.evaluated.json with scores attached")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().IntVar(&opts.window, "window", 0, "Near-miss window in positions (default 40)")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Weighting policy ("+strings.Join(weight.Policies(), ", ")+")")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Documents scored in parallel (default: CPU count)")
	cmd.Flags().IntVar(&opts.precision, "precision", 0, "Decimal digits in the report (default 10)")
	cmd.Flags().StringVar(&opts.store, "store", "", "Record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.metrics, "metrics-file", "", "Write Prometheus metrics to this textfile")
	_ = cmd.MarkFlagRequired("prediction")
	return cmd
}

func buildHistoryCmd() *cobra.Command {
	var (
		storePath string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runShowRun(cmd, storePath, args[0])
			}
			return runHistory(cmd, storePath, limit)
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite run database (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs (0 for all)")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}
