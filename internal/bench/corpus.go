// Package bench provides benchmarking utilities for boundary similarity.
package bench

import (
	"fmt"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/internal/dataset"
)

// Corpus is a set of aligned reference and hypothesis segmentations.
type Corpus struct {
	References map[string]boundary.Segmentation
	Hypotheses map[string]boundary.Segmentation

	// Predictions is the dataset the hypotheses were read from.
	Predictions *dataset.Dataset

	ReferenceDigest  string
	PredictionDigest string
}

// Len returns the number of reference documents.
func (c *Corpus) Len() int {
	return len(c.References)
}

// LoadCorpus reads predictions from predictionPath and gold boundaries
// from referencePath. An empty referencePath reads the gold boundaries of
// the prediction file itself.
func LoadCorpus(predictionPath, referencePath string) (*Corpus, error) {
	predictions, err := dataset.Load(predictionPath)
	if err != nil {
		return nil, fmt.Errorf("loading predictions: %w", err)
	}

	references := predictions
	if referencePath != "" && referencePath != predictionPath {
		references, err = dataset.Load(referencePath)
		if err != nil {
			return nil, fmt.Errorf("loading references: %w", err)
		}
	}

	refs, hyps, err := dataset.Pairs(references, predictions)
	if err != nil {
		return nil, err
	}

	return &Corpus{
		References:       refs,
		Hypotheses:       hyps,
		Predictions:      predictions,
		ReferenceDigest:  references.Digest,
		PredictionDigest: predictions.Digest,
	}, nil
}
