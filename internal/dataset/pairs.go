package dataset

import (
	"fmt"

	"github.com/jamesainslie/go-segsim/boundary"
)

// Pairs builds the reference and hypothesis segmentations of a corpus from
// the gold boundaries of references and the predicted boundaries of
// predictions. Entries present on one side only are carried through so the
// evaluator can report them.
func Pairs(references, predictions *Dataset) (refs, hyps map[string]boundary.Segmentation, err error) {
	refs = make(map[string]boundary.Segmentation, len(references.AnnotatedEntries))
	hyps = make(map[string]boundary.Segmentation, len(predictions.AnnotatedEntries))

	for _, id := range references.IDs() {
		gold := references.AnnotatedEntries[id].BoundaryAnnotation.Gold
		pred, ok := predictions.AnnotatedEntries[id]
		if !ok {
			refs[id], err = segmentation(gold)
			if err != nil {
				return nil, nil, fmt.Errorf("document %s: gold: %w", id, err)
			}
			continue
		}

		ref, hyp, err := align(gold, pred.BoundaryAnnotation.Prediction)
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: %w", id, err)
		}
		refs[id] = ref
		hyps[id] = hyp
	}

	for _, id := range predictions.IDs() {
		if _, ok := references.AnnotatedEntries[id]; ok {
			continue
		}
		hyps[id], err = segmentation(predictions.AnnotatedEntries[id].BoundaryAnnotation.Prediction)
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: prediction: %w", id, err)
		}
	}

	return refs, hyps, nil
}

// align checks that gold and prediction cover the same spans position by
// position and converts both to segmentations.
func align(gold, prediction []BoundaryAnnotation) (boundary.Segmentation, boundary.Segmentation, error) {
	if len(gold) != len(prediction) {
		return nil, nil, fmt.Errorf("%w: gold has %d spans, prediction has %d",
			boundary.ErrAlignment, len(gold), len(prediction))
	}
	for i := range gold {
		g, p := gold[i], prediction[i]
		if g.StartOffset != p.StartOffset || g.EndOffset != p.EndOffset {
			return nil, nil, fmt.Errorf("%w: span %d is [%d,%d) in gold and [%d,%d) in prediction",
				boundary.ErrAlignment, i, g.StartOffset, g.EndOffset, p.StartOffset, p.EndOffset)
		}
	}

	ref, err := segmentation(gold)
	if err != nil {
		return nil, nil, fmt.Errorf("gold: %w", err)
	}
	hyp, err := segmentation(prediction)
	if err != nil {
		return nil, nil, fmt.Errorf("prediction: %w", err)
	}
	return ref, hyp, nil
}

func segmentation(spans []BoundaryAnnotation) (boundary.Segmentation, error) {
	seg := make(boundary.Segmentation, len(spans))
	for i, s := range spans {
		if s.Boundary == nil {
			continue
		}
		l, err := boundary.ParseLabel(*s.Boundary)
		if err != nil {
			return nil, fmt.Errorf("span %d: %w", i, err)
		}
		seg[i] = l
	}
	return seg, nil
}
