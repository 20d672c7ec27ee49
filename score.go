package segsim

import (
	"math/big"

	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/weight"
)

// DocumentScore is the boundary similarity of one document comparison.
type DocumentScore struct {
	// Similarity is in [0, 1]; 1 is perfect agreement.
	Similarity *big.Rat

	Statistics boundary.Statistics

	// CountEdits is the weighted cost of every edit operation.
	CountEdits *big.Rat

	// WeightedTranspositions is the weighted cost of the transpositions alone.
	WeightedTranspositions *big.Rat

	Numerator   *big.Rat
	Denominator *big.Rat
}

// ReferenceBoundaries is the weight of the document in a corpus mean.
func (d DocumentScore) ReferenceBoundaries() int {
	return d.Statistics.ReferenceBoundaries
}

// Float64 returns the similarity as the nearest float64.
func (d DocumentScore) Float64() float64 {
	if d.Similarity == nil {
		return 0
	}
	f, _ := d.Similarity.Float64()
	return f
}

// Score computes boundary similarity (B2) from classified statistics.
//
// Boundaries present on one side only, additions and deletions alike, form
// the batch handed to the addition weight. Transpositions credit the
// denominator by how far their weighted cost stays below one full edit.
// A comparison without any boundary scores 1.
//
// rankRange is the number of label ranks a substitution can span, which is
// len(boundary.Labels()) whatever universe the segmentations were checked
// against. Score neither retains nor modifies stats, so the same statistics
// may be scored under several weight sets.
func Score(stats boundary.Statistics, weights weight.Set, rankRange int) DocumentScore {
	weights = weights.WithDefaults()
	misses := stats.Misses()

	unweighted := len(misses) + len(stats.Substitutions) + len(stats.Transpositions)
	weightedTrans := weights.Transpositions(stats.Transpositions, stats.Window)

	denominator := new(big.Rat).SetInt64(int64(unweighted + len(stats.Matches) + len(stats.Transpositions)))
	denominator.Sub(denominator, weightedTrans)

	edits := new(big.Rat).Add(
		weights.Additions(misses),
		weights.Substitutions(stats.Substitutions, rankRange, 1),
	)
	edits.Add(edits, weightedTrans)

	numerator := new(big.Rat).Sub(denominator, edits)
	if numerator.Sign() < 0 {
		numerator.SetInt64(0)
	}

	similarity := big.NewRat(1, 1)
	if denominator.Sign() > 0 {
		similarity.Quo(numerator, denominator)
	}

	return DocumentScore{
		Similarity:             similarity,
		Statistics:             stats,
		CountEdits:             edits,
		WeightedTranspositions: new(big.Rat).Set(weightedTrans),
		Numerator:              numerator,
		Denominator:            denominator,
	}
}

// weightedMean averages document similarities weighted by their reference
// boundary counts.
func weightedMean(scores []DocumentScore) (*big.Rat, int, error) {
	sum := new(big.Rat)
	total := 0
	for _, s := range scores {
		w := s.ReferenceBoundaries()
		if w == 0 {
			continue
		}
		term := new(big.Rat).Mul(s.Similarity, new(big.Rat).SetInt64(int64(w)))
		sum.Add(sum, term)
		total += w
	}
	if total == 0 {
		return nil, 0, ErrNoBoundaries
	}
	return sum.Quo(sum, new(big.Rat).SetInt64(int64(total))), total, nil
}
