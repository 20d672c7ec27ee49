package segsim

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/weight"
)

// DefaultWindow is the near-miss window used by the clinical sectioning
// benchmark.
const DefaultWindow = 40

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	window   int
	weights  weight.Set
	universe boundary.Universe
	workers  int
	logger   *slog.Logger
	observer Observer
}

func defaultConfig() config {
	return config{
		window:   DefaultWindow,
		weights:  weight.Unweighted(),
		universe: boundary.DefaultUniverse(),
		workers:  runtime.NumCPU(),
		logger:   slog.Default(),
	}
}

// WithWindow sets the near-miss window in positions (default: 40).
func WithWindow(n int) Option {
	return func(c *config) {
		c.window = n
	}
}

// WithWeights sets the weighting policy (default: weight.Unweighted()).
func WithWeights(s weight.Set) Option {
	return func(c *config) {
		c.weights = s.WithDefaults()
	}
}

// WithUniverse restricts the labels a segmentation may carry
// (default: every section label).
func WithUniverse(u boundary.Universe) Option {
	return func(c *config) {
		c.universe = u
	}
}

// WithWorkers sets how many documents are scored at once (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a sink notified of every scored document and corpus.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}
