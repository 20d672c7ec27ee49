package bench

import (
	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/boundary"
)

// Config holds detection scoring parameters.
type Config struct {
	// NearMisses counts transpositions as detected boundaries.
	NearMisses      bool
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns default evaluation configuration.
func DefaultConfig() Config {
	return Config{
		NearMisses:      true,
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics holds boundary detection results.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64
}

// Evaluate reads detection counts off a classification. A substitution
// is both a false positive and a false negative. Transpositions are true
// positives when near misses count, and otherwise both errors.
func Evaluate(stats boundary.Statistics, cfg Config) Metrics {
	tp := len(stats.Matches)
	fp := len(stats.Additions) + len(stats.Substitutions)
	fn := len(stats.Deletions) + len(stats.Substitutions)

	if cfg.NearMisses {
		tp += len(stats.Transpositions)
	} else {
		fp += len(stats.Transpositions)
		fn += len(stats.Transpositions)
	}

	return fromCounts(tp, fp, fn, cfg)
}

// EvaluateCorpus sums detection counts over every document of a result.
func EvaluateCorpus(result *segsim.CorpusResult, cfg Config) Metrics {
	var tp, fp, fn int
	for _, doc := range result.Documents {
		m := Evaluate(doc.Statistics, cfg)
		tp += m.TruePositives
		fp += m.FalsePositives
		fn += m.FalseNegatives
	}
	return fromCounts(tp, fp, fn, cfg)
}

func fromCounts(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}
