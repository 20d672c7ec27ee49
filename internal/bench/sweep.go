package bench

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/weight"
)

// Result holds the score of one window and policy.
type Result struct {
	Window     int
	Policy     string
	Similarity *big.Rat
	Metrics    Metrics
}

// Float64 returns the similarity as the nearest float64.
func (r Result) Float64() float64 {
	f, _ := r.Similarity.Float64()
	return f
}

// SweepWindows generates window sizes from min to max inclusive.
func SweepWindows(min, max, step int) []int {
	if step <= 0 || min < 0 {
		return nil
	}
	var windows []int
	for w := min; w <= max; w += step {
		windows = append(windows, w)
	}
	return windows
}

// Sweep scores the corpus at each window and returns results sorted by
// similarity descending, smaller windows first on ties.
func Sweep(ctx context.Context, corpus *Corpus, weights weight.Set, cfg Config, windows []int, opts ...segsim.Option) ([]Result, error) {
	results := make([]Result, 0, len(windows))

	for _, window := range windows {
		r, err := run(ctx, corpus, cfg, opts, segsim.WithWeights(weights), segsim.WithWindow(window))
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", window, err)
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if c := results[i].Similarity.Cmp(results[j].Similarity); c != 0 {
			return c > 0
		}
		return results[i].Window < results[j].Window
	})

	return results, nil
}

// ComparePolicies scores the corpus under each named weighting policy at a
// fixed window. Results keep the order of policies.
func ComparePolicies(ctx context.Context, corpus *Corpus, policies []string, window int, cfg Config, opts ...segsim.Option) ([]Result, error) {
	results := make([]Result, 0, len(policies))

	for _, name := range policies {
		weights, err := weight.ByName(name)
		if err != nil {
			return nil, err
		}
		r, err := run(ctx, corpus, cfg, opts, segsim.WithWeights(weights), segsim.WithWindow(window))
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", name, err)
		}
		results = append(results, r)
	}

	return results, nil
}

func run(ctx context.Context, corpus *Corpus, cfg Config, opts []segsim.Option, extra ...segsim.Option) (Result, error) {
	all := make([]segsim.Option, 0, len(opts)+len(extra))
	all = append(all, opts...)
	all = append(all, extra...)

	ev, err := segsim.New(all...)
	if err != nil {
		return Result{}, err
	}
	cr, err := ev.EvaluateCorpus(ctx, corpus.References, corpus.Hypotheses)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Window:     cr.Window,
		Policy:     cr.Policy,
		Similarity: cr.Similarity,
		Metrics:    EvaluateCorpus(cr, cfg),
	}, nil
}
