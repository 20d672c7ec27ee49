package segsim

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/weight"
)

// Observer receives scoring results as they are produced.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveDocument(id string, score DocumentScore)
	ObserveCorpus(result *CorpusResult, elapsed time.Duration)
}

// CorpusResult is the outcome of scoring a whole corpus.
type CorpusResult struct {
	// Similarity is the reference-boundary weighted mean of document
	// similarities.
	Similarity *big.Rat

	Documents map[string]DocumentScore

	// ReferenceBoundaries is the total weight behind Similarity.
	ReferenceBoundaries int

	Policy string
	Window int
}

// IDs returns the document ids in lexical order.
func (r *CorpusResult) IDs() []string {
	ids := make([]string, 0, len(r.Documents))
	for id := range r.Documents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Float64 returns the corpus similarity as the nearest float64.
func (r *CorpusResult) Float64() float64 {
	f, _ := r.Similarity.Float64()
	return f
}

// Evaluator scores segmentations under a fixed window, weight set and label
// universe. It is safe for concurrent use.
type Evaluator struct {
	window   int
	weights  weight.Set
	universe boundary.Universe
	workers  int
	logger   *slog.Logger
	observer Observer
}

// New creates an Evaluator.
func New(opts ...Option) (*Evaluator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.window < 0 {
		return nil, fmt.Errorf("%w: window %d is negative", ErrInvalidConfig, cfg.window)
	}
	if cfg.universe.Len() == 0 {
		return nil, fmt.Errorf("%w: empty label universe", ErrInvalidConfig)
	}
	for _, l := range cfg.universe {
		if !l.Present() || !l.Valid() {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrUnknownLabel, l)
		}
	}

	return &Evaluator{
		window:   cfg.window,
		weights:  cfg.weights.WithDefaults(),
		universe: cfg.universe,
		workers:  cfg.workers,
		logger:   cfg.logger,
		observer: cfg.observer,
	}, nil
}

// Window returns the near-miss window.
func (e *Evaluator) Window() int {
	return e.window
}

// Weights returns the weighting policy.
func (e *Evaluator) Weights() weight.Set {
	return e.weights
}

// Universe returns the active label universe.
func (e *Evaluator) Universe() boundary.Universe {
	return e.universe
}

// EvaluateDocument classifies and scores one document.
func (e *Evaluator) EvaluateDocument(id string, reference, hypothesis boundary.Segmentation) (DocumentScore, error) {
	if err := reference.Validate(e.universe); err != nil {
		return DocumentScore{}, fmt.Errorf("document %s: reference: %w", id, err)
	}
	if err := hypothesis.Validate(e.universe); err != nil {
		return DocumentScore{}, fmt.Errorf("document %s: hypothesis: %w", id, err)
	}

	stats, err := boundary.Classify(reference, hypothesis, e.window)
	if err != nil {
		return DocumentScore{}, fmt.Errorf("document %s: %w", id, err)
	}

	score := Score(stats, e.weights, len(boundary.Labels()))

	e.logger.Debug("scored document",
		"document", id,
		"similarity", score.Similarity.FloatString(4),
		"matches", len(stats.Matches),
		"additions", len(stats.Additions),
		"deletions", len(stats.Deletions),
		"substitutions", len(stats.Substitutions),
		"transpositions", len(stats.Transpositions),
	)
	if e.observer != nil {
		e.observer.ObserveDocument(id, score)
	}

	return score, nil
}

// EvaluateCorpus scores every document and aggregates the results.
// Both maps must hold the same document ids.
func (e *Evaluator) EvaluateCorpus(ctx context.Context, references, hypotheses map[string]boundary.Segmentation) (*CorpusResult, error) {
	start := time.Now()

	ids := sortedIDs(references)
	for _, id := range ids {
		if _, ok := hypotheses[id]; !ok {
			return nil, fmt.Errorf("%w: %s has no hypothesis", ErrMissingDocument, id)
		}
	}
	for _, id := range sortedIDs(hypotheses) {
		if _, ok := references[id]; !ok {
			return nil, fmt.Errorf("%w: %s has no reference", ErrMissingDocument, id)
		}
	}

	scores := make([]DocumentScore, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := e.EvaluateDocument(id, references[id], hypotheses[id])
			if err != nil {
				return err
			}
			scores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mean, total, err := weightedMean(scores)
	if err != nil {
		return nil, fmt.Errorf("%w (%d documents)", err, len(ids))
	}

	result := &CorpusResult{
		Similarity:          mean,
		Documents:           make(map[string]DocumentScore, len(ids)),
		ReferenceBoundaries: total,
		Policy:              e.weights.Name,
		Window:              e.window,
	}
	for i, id := range ids {
		result.Documents[id] = scores[i]
	}

	elapsed := time.Since(start)
	e.logger.Info("evaluated corpus",
		"documents", len(ids),
		"reference_boundaries", total,
		"policy", e.weights.Name,
		"window", e.window,
		"similarity", mean.FloatString(4),
		"elapsed", elapsed,
	)
	if e.observer != nil {
		e.observer.ObserveCorpus(result, elapsed)
	}

	return result, nil
}

func sortedIDs(docs map[string]boundary.Segmentation) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
