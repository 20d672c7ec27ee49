package boundary

import (
	"fmt"
	"sort"
)

// Classify partitions the boundaries of two aligned segmentations into
// matches, transpositions, substitutions, deletions and additions.
//
// Matches are resolved first, then leftover boundaries sharing an offset
// become substitutions. Transpositions pair the remaining boundaries of equal
// label in order of distance, 1 up to window: at each distance reference
// offsets are scanned in ascending order and the earlier hypothesis offset is
// tried first. Whatever is left is a deletion or an addition.
//
// Matches and substitutions do not depend on window, and every pairing made
// at distance d is made identically under any larger window, so widening the
// window only turns deletion and addition pairs into transpositions.
func Classify(reference, hypothesis Segmentation, window int) (Statistics, error) {
	if len(reference) != len(hypothesis) {
		return Statistics{}, fmt.Errorf("%w: reference has %d positions, hypothesis has %d",
			ErrAlignment, len(reference), len(hypothesis))
	}
	if window < 0 {
		return Statistics{}, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}

	n := len(reference)
	stats := Statistics{
		ReferenceBoundaries:  reference.Boundaries(),
		HypothesisBoundaries: hypothesis.Boundaries(),
		Window:               window,
	}
	refUsed := make([]bool, n)
	hypUsed := make([]bool, n)

	for i := 0; i < n; i++ {
		if reference[i].Present() && reference[i] == hypothesis[i] {
			stats.Matches = append(stats.Matches, Match{Offset: i, Label: reference[i]})
			refUsed[i] = true
			hypUsed[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if refUsed[i] || hypUsed[i] || !reference[i].Present() || !hypothesis[i].Present() {
			continue
		}
		stats.Substitutions = append(stats.Substitutions, Substitution{
			Offset:     i,
			Reference:  reference[i],
			Hypothesis: hypothesis[i],
		})
		refUsed[i] = true
		hypUsed[i] = true
	}

	for d := 1; d <= window && d < n; d++ {
		for i := 0; i < n; i++ {
			label := reference[i]
			if !label.Present() || refUsed[i] {
				continue
			}
			for _, j := range [2]int{i - d, i + d} {
				if j < 0 || j >= n || hypUsed[j] || hypothesis[j] != label {
					continue
				}
				stats.Transpositions = append(stats.Transpositions, Transposition{Start: i, End: j, Label: label})
				refUsed[i] = true
				hypUsed[j] = true
				break
			}
		}
	}
	sort.Slice(stats.Transpositions, func(x, y int) bool {
		return stats.Transpositions[x].Start < stats.Transpositions[y].Start
	})

	for i := 0; i < n; i++ {
		if reference[i].Present() && !refUsed[i] {
			stats.Deletions = append(stats.Deletions, Miss{Offset: i, Label: reference[i], Side: Reference})
		}
		if hypothesis[i].Present() && !hypUsed[i] {
			stats.Additions = append(stats.Additions, Miss{Offset: i, Label: hypothesis[i], Side: Hypothesis})
		}
	}

	stats.FullMisses = len(stats.Additions) + len(stats.Deletions) + len(stats.Substitutions)
	return stats, nil
}
