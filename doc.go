// Package segsim scores labeled document segmentations with boundary
// similarity (B2), tolerating near-miss boundaries within a window.
//
// # Quick Start
//
//	ev, err := segsim.New(
//	    segsim.WithWindow(40),
//	    segsim.WithWeights(weight.Saturating()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := ev.EvaluateCorpus(ctx, references, hypotheses)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("B2: %s\n", result.Similarity.FloatString(4))
//
// # Scoring
//
// Each document pair is classified with boundary.Classify and scored with
// Score. The corpus similarity is the mean of document similarities weighted
// by the number of reference boundaries in each document.
//
// # Thread Safety
//
// Evaluator is safe for concurrent use. Documents of a corpus are scored by
// a bounded group of goroutines, configurable via WithWorkers.
package segsim
